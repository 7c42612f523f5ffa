package lasercavity

type Real = float64

const (
	Wavelength       = 1000.0 // nm
	InitialWaist     = 100.0  // um, single-pass mode only
	ScanSteps        = 64
	GIFOut           = "stability.gif"
	GIFDelay         = 5 // 100ths of a second per frame
	Gamma            = 1.0
	SpeedOfLightMHz  = 299792.458  // mm/ns -> mode spacing in MHz
	SpeedOfLightUmFs = 0.299792458 // um/fs, dispersion formulas
	MaxIncidenceDeg  = 80.0        // user incidence / face angle clamp
	RingMinMirrors   = 3
	RingClosureTol   = 1e-12 // ring gap divided by max(|closing leg|, 1 mm), so absolute for legs under 1 mm
	DragEps          = 1e-8  // "zero length" fixed leg in drag / ring construction
	DefaultThickness = 20.0  // mm, inserted dielectric block
	DefaultIndex     = 1.5
	SelectTolerance  = 10.0 // mm, element / segment hit test
)
