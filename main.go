package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/loaders"
	"github.com/df07/go-lighting-preview/pkg/preview"
	"github.com/df07/go-lighting-preview/pkg/scene"
)

func main() {
	sceneType := flag.String("scene", "default", "Scene: 'default', 'cornell', 'lightgrid', 'mesh:<name>' or a .ply path")
	width := flag.Int("width", 0, "Preview width in pixels (0 = scene default)")
	height := flag.Int("height", 0, "Preview height in pixels (0 = derived from the camera aspect ratio)")
	meshPath := flag.String("mesh", "", "Optional PLY mesh added to the scene as an extra occluder")
	format := flag.String("format", "png", "Frame format: 'png' or 'bmp'")
	interval := flag.Duration("interval", 2*time.Second, "Minimum time between intermediate frames")
	timeout := flag.Duration("timeout", 5*time.Minute, "Give up if the preview has not converged by then")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Lighting Preview")
		fmt.Println("Usage: lighting-preview [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default   - Outdoor blocks under a low sun with two lamps")
		fmt.Println("  cornell   - Cornell box with a ceiling light and a spot light")
		fmt.Println("  lightgrid - Pillars lit by an 8x8 grid of colored point lights")
		fmt.Println()
		fmt.Println("Frames are saved to output/<scene>/frame_<n>.<format>")
		return
	}

	imageFormat, err := loaders.NormalizeImageFormat(*format)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Starting Lighting Preview...")

	selectedScene, err := createScene(*sceneType, *width)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}

	if *meshPath != "" {
		data, err := loaders.LoadPLY(*meshPath)
		if err != nil {
			fmt.Printf("Error loading mesh: %v\n", err)
			os.Exit(1)
		}
		selectedScene.AddMesh(data, core.NewVec3(0, 0, 0), 1, core.NewVec3(0.7, 0.7, 0.7))
	}

	w, h := previewSize(selectedScene, *width, *height)

	config := preview.DefaultConfig()
	config.SendInterval = *interval

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	outputDir := filepath.Join("output", selectedScene.Name)
	startTime := time.Now()
	frames, err := runPreview(ctx, selectedScene, w, h, config, outputDir, imageFormat, core.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Preview failed after %d frames: %v\n", frames, err)
		os.Exit(1)
	}

	fmt.Printf("Preview converged in %v (%d frames saved to %s)\n", time.Since(startTime), frames, outputDir)
}

// createScene builds the named scene, overriding the camera width when width > 0
func createScene(sceneType string, width int) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene name is empty")
	}
	if width > 0 {
		return scene.NewSceneByID(sceneType, scene.CameraConfig{Width: width})
	}
	return scene.NewSceneByID(sceneType)
}

// previewSize resolves the buffer size from flags and the scene camera
func previewSize(s *scene.Scene, width, height int) (int, int) {
	config := s.CameraConfig
	if width > 0 {
		config.Width = width
	}
	if height <= 0 {
		height = config.Height()
	}
	return config.Width, height
}

// runPreview streams the scene through a preview worker and writes every accepted
// frame to outputDir until a complete frame arrives. It returns the number of frames written.
func runPreview(ctx context.Context, s *scene.Scene, width, height int, config preview.Config,
	outputDir, format string, logger core.Logger) (int, error) {

	host := preview.NewHost(config, logger)

	logger.Printf("Rendering %dx%d G-buffers for %s (%d triangles, %d lights)...\n",
		width, height, s.Name, s.GetPrimitiveCount(), len(s.Lights))
	buffers := s.RenderGBuffers(width, height)

	host.SendGeometry(s.TrianglesSnapshot())
	host.SendBuffers(buffers)
	host.SendLights(s.LightsSnapshot(), s.Eye())

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	host.Start(workerCtx)

	frames := 0
	for {
		frame, err := host.WaitFrame(ctx)
		if err != nil {
			stopWorker()
			host.Wait()
			return frames, fmt.Errorf("waiting for frame: %w", err)
		}

		frames++
		filename := filepath.Join(outputDir, fmt.Sprintf("frame_%03d.%s", frames, format))
		if err := loaders.SaveImage(filename, frame.Image, format); err != nil {
			stopWorker()
			host.Wait()
			return frames - 1, err
		}
		logger.Printf("Frame %d saved as %s (%s)\n", frames, filename, frame.Stats)

		if frame.Complete {
			break
		}
	}

	host.Exit()
	if err := host.Wait(); err != nil {
		return frames, fmt.Errorf("preview worker: %w", err)
	}
	return frames, nil
}
