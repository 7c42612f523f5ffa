package lasercavity

import (
	"encoding/json"
	"fmt"
	"os"
)

// StartCfg places the first element. Angles in degrees.
type StartCfg struct {
	X    Real `json:"x"`
	Y    Real `json:"y"`
	QDeg Real `json:"qDeg"`
}

// ElementCfg describes one chain entry. A dielectric block or a prism
// pair is a single entry and expands to all its members.
type ElementCfg struct {
	Type string `json:"type"` // Mirror, Lens, Screen, Dielectric, Dispersion

	DistanceToNext    *Equation `json:"distanceToNext,omitempty"`
	RadiusOfCurvature *Equation `json:"radiusOfCurvature,omitempty"`
	AngleOfIncidence  *Equation `json:"angleOfIncidence,omitempty"`
	FocalLength       *Equation `json:"focalLength,omitempty"`

	// Dielectric and Dispersion
	BlockType               string    `json:"blockType,omitempty"`
	Flip                    bool      `json:"flip,omitempty"`
	RefractiveIndex         *Equation `json:"refractiveIndex,omitempty"`
	GroupVelocityDispersion *Equation `json:"groupVelocityDispersion,omitempty"`
	Thickness               *Equation `json:"thickness,omitempty"`
	FaceAngle               *Equation `json:"faceAngle,omitempty"`
	CurvatureFace1          *Equation `json:"curvatureFace1,omitempty"`
	CurvatureFace2          *Equation `json:"curvatureFace2,omitempty"`
	ThermalLens             *Equation `json:"thermalLens,omitempty"`
	Separation              *Equation `json:"separation,omitempty"` // prism pair
	PrismInsertion          *Equation `json:"prismInsertion,omitempty"`
	IndexDispersion         *Equation `json:"indexDispersion,omitempty"`
}

// ScanCfg is an optional stability map over up to three variables.
type ScanCfg struct {
	ResX     int    `json:"resX"`
	ResY     int    `json:"resY"`
	ResZ     int    `json:"resZ"`
	X        string `json:"x"`
	Y        string `json:"y,omitempty"`
	Z        string `json:"z,omitempty"`
	GIFOut   string `json:"gifOut"`
	GIFDelay int    `json:"gifDelay,omitempty"`
	Gamma    Real   `json:"gamma,omitempty"`
	Colormap string `json:"colormap,omitempty"`
}

type Config struct {
	Name          string          `json:"name,omitempty"`
	Configuration string          `json:"configuration"`
	Wavelength    *Equation       `json:"wavelength,omitempty"`
	InitialWaist  *Equation       `json:"initialWaist,omitempty"`
	Start         StartCfg        `json:"start"`
	Variables     []VariableRange `json:"variables,omitempty"`
	Elements      []ElementCfg    `json:"elements"`
	Scan          *ScanCfg        `json:"scan,omitempty"`
}

type propertySetter struct {
	prop  Property
	value *Equation
}

func applyProperties(el Element, props []propertySetter) error {
	for _, p := range props {
		if p.value == nil {
			continue
		}
		if err := el.Set(p.prop, *p.value); err != nil {
			return fmt.Errorf("%s %s: %w", el.Kind(), p.prop, err)
		}
	}
	return nil
}

// Build validates and constructs the chain members for one entry.
func (ec ElementCfg) Build() ([]Element, error) {
	kind, err := ParseKind(ec.Type)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindMirror:
		m := mirror(0, 0, 0)
		return []Element{m}, applyProperties(m, []propertySetter{
			{PropDistanceToNext, ec.DistanceToNext},
			{PropRadiusOfCurvature, ec.RadiusOfCurvature},
			{PropAngleOfIncidence, ec.AngleOfIncidence},
		})
	case KindLens:
		l := NewLens()
		return []Element{l}, applyProperties(l, []propertySetter{
			{PropDistanceToNext, ec.DistanceToNext},
			{PropFocalLength, ec.FocalLength},
		})
	case KindScreen:
		sc := NewScreen()
		return []Element{sc}, applyProperties(sc, []propertySetter{
			{PropDistanceToNext, ec.DistanceToNext},
		})
	case KindDielectric:
		t := Plate
		if ec.BlockType != "" {
			if t, err = ParseBlockType(ec.BlockType); err != nil {
				return nil, err
			}
		}
		g := NewDielectricGroup(t)
		g.flip = ec.Flip
		err := applyProperties(g.input, []propertySetter{
			{PropRefractiveIndex, ec.RefractiveIndex},
			{PropGroupVelocityDispersion, ec.GroupVelocityDispersion},
			{PropThickness, ec.Thickness},
			{PropAngleOfIncidence, ec.AngleOfIncidence},
			{PropFaceAngle, ec.FaceAngle},
			{PropCurvatureFace1, ec.CurvatureFace1},
			{PropCurvatureFace2, ec.CurvatureFace2},
			{PropThermalLens, ec.ThermalLens},
			{PropElementDistanceToNext, ec.DistanceToNext},
		})
		return g.Members(), err
	case KindDispersion:
		if ec.BlockType != "" && ec.BlockType != Prism.String() {
			return nil, fmt.Errorf("dispersion type %q not supported", ec.BlockType)
		}
		p := NewPrismPair()
		p.flip = ec.Flip
		if err := applyProperties(p.first, []propertySetter{
			{PropRefractiveIndex, ec.RefractiveIndex},
			{PropGroupVelocityDispersion, ec.GroupVelocityDispersion},
			{PropIndexDispersion, ec.IndexDispersion},
			{PropPrismInsertion, ec.PrismInsertion},
			{PropDistanceToNext, ec.Separation},
		}); err != nil {
			return nil, err
		}
		return p.Members(), applyProperties(p.second, []propertySetter{
			{PropDistanceToNext, ec.DistanceToNext},
		})
	}
	return nil, fmt.Errorf("unsupported element type %q", ec.Type)
}

// Build validates the config and lays out the described cavity.
func (cfg *Config) Build() (*System, error) {
	c := ConfigLinear
	if cfg.Configuration != "" {
		var err error
		if c, err = ParseConfiguration(cfg.Configuration); err != nil {
			return nil, err
		}
	}
	if len(cfg.Elements) == 0 {
		return nil, fmt.Errorf("config has no elements")
	}
	s := newSystem(c)
	s.Name = cfg.Name
	if s.Name == "" {
		s.Name = configurationNames[c]
	}
	if cfg.Wavelength != nil {
		s.wavelength = *cfg.Wavelength
	}
	if cfg.InitialWaist != nil {
		s.initialWaist = *cfg.InitialWaist
	}
	vars := Variables{}
	for _, v := range cfg.Variables {
		var err error
		if vars, err = vars.With(v.Name, v.Value); err != nil {
			return nil, err
		}
	}
	s.vars = vars

	for i, ec := range cfg.Elements {
		els, err := ec.Build()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		s.Append(els...)
	}
	if c == ConfigRing && s.countMirrors() < RingMinMirrors {
		return nil, fmt.Errorf("ring needs %d mirrors, have %d", RingMinMirrors, s.countMirrors())
	}
	s.PlaceStart(cfg.Start.X, cfg.Start.Y, rad(cfg.Start.QDeg))
	if err := s.CalculateCartesianCoordinates(0, -1); err != nil {
		return nil, err
	}
	return s, nil
}

// variableRange returns the configured range of a named variable, or an
// empty range for "".
func (cfg *Config) variableRange(name string) (VariableRange, error) {
	if name == "" {
		return VariableRange{}, nil
	}
	for _, v := range cfg.Variables {
		if v.Name == name {
			return v, nil
		}
	}
	return VariableRange{}, fmt.Errorf("scan variable %q has no range", name)
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.Configuration == "" {
		cfg.Configuration = string(ConfigLinear)
	}
	if cfg.Wavelength == nil {
		w := Num(Wavelength)
		cfg.Wavelength = &w
	}
	if cfg.InitialWaist == nil {
		w := Num(InitialWaist)
		cfg.InitialWaist = &w
	}
	if len(cfg.Elements) == 0 {
		return nil, fmt.Errorf("config has no elements")
	}
	if sc := cfg.Scan; sc != nil {
		if sc.ResX <= 0 {
			sc.ResX = ScanSteps
		}
		if sc.ResY <= 0 {
			sc.ResY = ScanSteps
		}
		if sc.ResZ <= 0 {
			sc.ResZ = 1
		}
		if sc.GIFOut == "" {
			sc.GIFOut = GIFOut
		}
		if sc.GIFDelay <= 0 {
			sc.GIFDelay = GIFDelay
		}
		if sc.Gamma <= 0 {
			sc.Gamma = Gamma
		}
		if sc.X == "" {
			return nil, fmt.Errorf("scan has no x variable")
		}
	}
	DebugLog("Loaded config from %s: %s, %d elements", path, cfg.Configuration, len(cfg.Elements))
	return &cfg, nil
}
