package main

import (
	"flag"
	"strings"
)

// AppFlags are the command line options. Pointer fields are nil when the flag
// was not given, so config values are only overridden on purpose.
type AppFlags struct {
	GlobalConfigFile string
	TrafficFiles     []string
	URLListFile      string
	Target           string
	SourceMaps       *bool
	Interesting      *bool
	ExportPath       string
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	trafficFiles := flag.String("traffic", "", "Comma separated WARC files holding observed traffic")
	trafficFilesAlias := flag.String("t", "", "Alias for -traffic")

	urlListFile := flag.String("urls", "", "Path to a text file with one observed URL per line")
	urlListFileAlias := flag.String("u", "", "Alias for -urls")

	target := flag.String("target", "", "Base URL of the scan. Defaults to the site of the first traffic record.")
	sourceMaps := flag.Bool("source-maps", true, "Fetch and analyze source map candidates (overrides config file if set)")
	interesting := flag.Bool("interesting", true, "Scan observed scripts for interesting stuff (overrides config file if set)")
	exportPath := flag.String("export", "", "Parquet file to export findings to (overrides config file if set)")

	flag.Parse()

	flags := AppFlags{
		Target:     *target,
		ExportPath: *exportPath,
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	rawTraffic := *trafficFiles
	if rawTraffic == "" {
		rawTraffic = *trafficFilesAlias
	}
	for _, path := range strings.Split(rawTraffic, ",") {
		if path = strings.TrimSpace(path); path != "" {
			flags.TrafficFiles = append(flags.TrafficFiles, path)
		}
	}

	if *urlListFile != "" {
		flags.URLListFile = *urlListFile
	} else if *urlListFileAlias != "" {
		flags.URLListFile = *urlListFileAlias
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source-maps":
			flags.SourceMaps = sourceMaps
		case "interesting":
			flags.Interesting = interesting
		}
	})

	return flags
}
