package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/agalitsyn/flagutils"

	"github.com/agalitsyn/tasklist/version"
)

const EnvPrefix = "TASKLIST"

type Flags struct {
	Debug bool

	ConfigPath string
	DBPath     string

	Args []string
}

func ParseFlags() Flags {
	var flags Flags

	printVersion := flag.Bool("version", false, "Show version.")
	logLevel := flag.String("log-level", "info", "Log level (debug | info).")
	configPath := flag.String("config", "", "Path to config file. Defaults to the user config dir.")
	dbPath := flag.String("db", "", "Path to task database. Overrides the config file.")

	flagutils.Prefix = EnvPrefix
	flagutils.Parse()
	flag.Parse()

	if *printVersion {
		fmt.Fprintln(os.Stdout, version.String())
		os.Exit(0)
	}

	flags.Debug = *logLevel == "debug"
	flags.ConfigPath = *configPath
	flags.DBPath = *dbPath
	flags.Args = flag.Args()
	return flags
}
