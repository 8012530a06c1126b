package flags

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Config holds all command-line configuration
type Config struct {
	Port        string
	SeedCSV     string
	ReceiptsDir string
	Help        bool
}

// ErrHelp is returned by ParseArgs when --help was given.
var ErrHelp = errors.New("help requested")

// Parse parses os.Args, printing usage and exiting on --help or invalid input.
func Parse() Config {
	config, err := ParseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return config
}

// ParseArgs parses args. Empty string values mean "use the environment".
func ParseArgs(args []string, output io.Writer) (Config, error) {
	fs := flag.NewFlagSet("restaurante", flag.ContinueOnError)
	fs.SetOutput(output)

	var config Config
	fs.StringVar(&config.Port, "port", "", "Port number")
	fs.StringVar(&config.SeedCSV, "seed-csv", "", "CSV file merged into stock at startup")
	fs.StringVar(&config.ReceiptsDir, "receipts-dir", "", "Directory for generated receipts")
	fs.BoolVar(&config.Help, "help", false, "Show this screen")

	fs.Usage = func() {
		fmt.Fprintf(output, "Restaurant point of sale\n\n")
		fmt.Fprintf(output, "Usage:\n")
		fmt.Fprintf(output, "  restaurante [--port <N>] [--seed-csv <file>] [--receipts-dir <dir>]\n")
		fmt.Fprintf(output, "  restaurante --help\n\n")
		fmt.Fprintf(output, "Options:\n")
		fmt.Fprintf(output, "  --help               Show this screen.\n")
		fmt.Fprintf(output, "  --port N             Port number (1-65535).\n")
		fmt.Fprintf(output, "  --seed-csv FILE      Merge ingredients from FILE (nombre,unidad,cantidad).\n")
		fmt.Fprintf(output, "  --receipts-dir DIR   Where receipt PDFs are written.\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, ErrHelp
		}
		return Config{}, err
	}
	if config.Help {
		fs.Usage()
		return config, ErrHelp
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate validates the parsed configuration
func (c Config) Validate() error {
	if c.Port != "" {
		if err := ValidatePort(c.Port); err != nil {
			return err
		}
	}
	if c.SeedCSV != "" {
		info, err := os.Stat(c.SeedCSV)
		if err != nil {
			return fmt.Errorf("seed csv: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("seed csv %s is a directory", c.SeedCSV)
		}
	}
	return nil
}

// ValidatePort validates the port number
func ValidatePort(port string) error {
	if port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port number '%s': must be a number", port)
	}
	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("port number %d is out of range: must be between 1 and 65535", portNum)
	}
	return nil
}
