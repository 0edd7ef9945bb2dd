package benchmarks

import (
	"os"
	"path"
	"runtime"
	"runtime/pprof"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/zeu5/easy21-rl/config"
	"github.com/zeu5/easy21-rl/util"
)

// startProfiling starts the CPU profile when requested. The returned function
// stops it and writes the heap profile.
func startProfiling(c *config.Config) (func(), error) {
	if c.CPUProfile == "" && c.MemProfile == "" {
		return func() {}, nil
	}
	if err := util.EnsureDir(c.Save); err != nil {
		return nil, err
	}

	var cpuFile *os.File
	if c.CPUProfile != "" {
		cpuProfPath := path.Join(c.Save, c.CPUProfile)
		glog.Infof("Profiling CPU to %s", cpuProfPath)
		f, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, errors.Wrap(err, "could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
		cpuFile = f
	}

	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if c.MemProfile == "" {
			return
		}
		memProfPath := path.Join(c.Save, c.MemProfile)
		glog.Infof("Profiling memory to %s", memProfPath)
		f, err := os.Create(memProfPath)
		if err != nil {
			glog.Errorf("could not create memory profile: %s", err)
			return
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			glog.Errorf("could not write memory profile: %s", err)
		}
	}, nil
}
