package gsmath

// Channel indices for readability.
const (
	ChR = 0
	ChG = 1
	ChB = 2

	// MaxSHDegree is the highest supported band; a block carries up to
	// (MaxSHDegree+1)^2 coefficients per channel.
	MaxSHDegree = 3

	// GroupSize is how many primitives one worker claims per grab,
	// the analog of a fixed GPU block size. Last group may be partial.
	GroupSize = 256

	// TileSize is the screen-tile edge in pixels used for the
	// tiles-touched estimate of the EWA stage.
	TileSize = 16

	Points     = 100_000
	Degree     = 3
	Width      = 512
	Height     = 512
	FovXDeg    = 90.0
	CamDist    = 8.0
	PreviewOut = "preview.png"

	// hot-loop constants
	nearPlane   = 0.2 // camera-space z below this is culled
	lowPass     = 0.3 // diagonal bias keeping the 2D covariance invertible
	fovClampMul = 1.3 // frustum clamp slack on tan(half-fov)
)
