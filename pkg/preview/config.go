package preview

import "time"

// Config contains tuning parameters for the preview worker and host
type Config struct {
	SendInterval       time.Duration // Minimum time between frames while work remains
	AmbientScale       float64       // Length of the estimated ambient color
	MagnitudeThreshold float64       // Stored contributions with |r|+|g|+|b| below this are zero
	ShadowRayOffset    float64       // Distance shadow rays start off the surface
	StaleLightUpdates  int           // Light updates an absent light's state survives (<0 = forever)
	MinFrameSize       int           // Host ignores frames narrower or shorter than this
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		SendInterval:       10 * time.Second,
		AmbientScale:       0.05,
		MagnitudeThreshold: 1.0 / 512.0,
		ShadowRayOffset:    0.01,
		StaleLightUpdates:  8,
		MinFrameSize:       2,
	}
}
