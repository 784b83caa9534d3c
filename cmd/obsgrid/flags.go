package main

import "flag"

// Command-line flags. Flags that are set override the matching keys of the
// YAML config file.
var (
	// configPathFlag points at the YAML grid description.
	configPathFlag = flag.String("config", defaultConfigPath, "path to the grid config (YAML); defaults are used if it does not exist")

	// resolutionFlag overrides the sampling resolution in samples per meter.
	resolutionFlag = flag.Float64("resolution", 0, "samples per meter (overrides config when > 0)")

	// speedOfSoundFlag overrides the speed of sound in m/s.
	speedOfSoundFlag = flag.Float64("speed-of-sound", 0, "speed of sound in m/s (overrides config when set)")

	// resultOnGPUFlag places the result buffer in device memory.
	resultOnGPUFlag = flag.Bool("result-on-gpu", false, "allocate the result buffer on the device (requires -tags opencl)")

	// strictFlag reports invalid parameter updates instead of ignoring them.
	strictFlag = flag.Bool("strict", false, "report invalid speed of sound instead of ignoring it")

	rasterFlag = flag.String("raster", "256x256", "display raster WxH used to report corner positions")

	// cpuProfileFlag writes a CPU profile covering grid construction only.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile of grid construction to this path")

	// debugFlag enables debug logging.
	debugFlag = flag.Bool("debug", false, "enable debug logging")
)
