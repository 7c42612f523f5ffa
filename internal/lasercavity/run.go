package lasercavity

import (
	"os"
	"strings"
	"time"
)

func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	sys, err := cfg.Build()
	if err != nil {
		return err
	}
	res, err := sys.Update(nil, nil)
	if err != nil {
		return err
	}
	if err := Report(os.Stdout, sys, res); err != nil {
		return err
	}

	sc := cfg.Scan
	if sc == nil {
		return nil
	}
	cmap, err := ColormapByName(sc.Colormap)
	if err != nil {
		return err
	}
	var ranges [3]VariableRange
	for i, name := range []string{sc.X, sc.Y, sc.Z} {
		if ranges[i], err = cfg.variableRange(name); err != nil {
			return err
		}
	}

	start := time.Now()
	m, err := ComputeStabilityMap(cfg.Build, ranges[0], ranges[1], ranges[2], sc.ResX, sc.ResY, sc.ResZ)
	if err != nil {
		return err
	}
	DebugLog("Stability map: %d samples, time: %s", len(m.Buf), time.Since(start))

	if Debug {
		samplesStats()
	}

	if PNG {
		prefix := strings.Replace(sc.GIFOut, ".gif", "", 1)
		prefix = strings.Replace(prefix, "gifs/", "pngs/", 1)
		if err := SaveStabilityPNGSequence16(m, prefix, cmap, sc.Gamma); err != nil {
			return err
		}
		DebugLog("Saved PNG sequence with prefix: %s", prefix)
	} else {
		if err := SaveStabilityGIF(m, sc.GIFOut, cmap, sc.GIFDelay, sc.Gamma); err != nil {
			return err
		}
		DebugLog("Saved animated GIF: %s", sc.GIFOut)
	}
	return nil
}
