// Command atatrim probes and erases block ranges on SATA devices through
// the Linux SG_IO pass-through.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	trim "github.com/ataio/go-atatrim"
	"github.com/ataio/go-atatrim/internal/logging"
	"github.com/ataio/go-atatrim/sgio"
)

var (
	flagLogLevel string
	flagLogJSON  bool

	flagDevice string
	flagPort   uint16
	flagPMP    uint16
	flagStart  uint64
	flagEnd    uint64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "atatrim: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "atatrim",
		Short:         "TRIM (bulk deallocate) block ranges on SATA devices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit JSON logs")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Report whether the device supports DATA SET MANAGEMENT / TRIM",
		RunE:  runProbe,
	}
	addDeviceFlags(probeCmd)

	eraseCmd := &cobra.Command{
		Use:   "erase",
		Short: "Deallocate an inclusive LBA span",
		RunE:  runErase,
	}
	addDeviceFlags(eraseCmd)
	eraseCmd.Flags().Uint64Var(&flagStart, "start", 0, "first LBA of the span")
	eraseCmd.Flags().Uint64Var(&flagEnd, "end", 0, "last LBA of the span (inclusive)")
	cobra.CheckErr(eraseCmd.MarkFlagRequired("start"))
	cobra.CheckErr(eraseCmd.MarkFlagRequired("end"))

	root.AddCommand(probeCmd, eraseCmd)
	return root
}

func addDeviceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDevice, "device", "", "device node (e.g. /dev/sda)")
	cmd.Flags().Uint16Var(&flagPort, "port", 0, "HBA port number")
	cmd.Flags().Uint16Var(&flagPMP, "pmp", trim.PortMultiplierNone, "port-multiplier port number")
	cobra.CheckErr(cmd.MarkFlagRequired("device"))
}

func configureLogging() {
	config := logging.DefaultConfig()
	switch flagLogLevel {
	case "debug":
		config.Level = logging.LevelDebug
	case "warn":
		config.Level = logging.LevelWarn
	case "error":
		config.Level = logging.LevelError
	}
	if flagLogJSON {
		config.Format = "json"
	}
	logging.SetDefault(logging.NewLogger(config))
}

func runProbe(cmd *cobra.Command, args []string) error {
	dev, err := sgio.Open(flagDevice)
	if err != nil {
		return errors.Wrapf(err, "open %s", flagDevice)
	}
	defer dev.Close()

	capa, err := trim.ProbeTrim(dev, trim.Addr{Port: flagPort, PortMultiplier: flagPMP})
	if err != nil {
		return errors.Wrapf(err, "probe %s", flagDevice)
	}

	if !capa.Supported {
		fmt.Printf("%s: TRIM not supported\n", flagDevice)
		return nil
	}
	fmt.Printf("%s: TRIM supported, max %d range-payload blocks per command\n",
		flagDevice, capa.MaxBlocks)
	return nil
}

func runErase(cmd *cobra.Command, args []string) error {
	issuer, err := sgio.Open(flagDevice)
	if err != nil {
		return errors.Wrapf(err, "open %s", flagDevice)
	}
	defer issuer.Close()

	path := trim.SATAPath(flagPort, flagPMP)
	backend, err := trim.ForPath(path)
	if err != nil {
		return errors.Wrapf(err, "classify %s", flagDevice)
	}

	metrics := trim.NewMetrics()
	if sata, ok := backend.(*trim.SATA); ok {
		sata.SetObserver(metrics)
	}

	dev := &trim.Device{Path: path, Issuer: issuer}
	span := trim.Span{Start: flagStart, End: flagEnd}
	if err := backend.EraseBlocks(dev, span); err != nil {
		if trim.IsUnsupported(err) {
			return errors.Errorf("%s does not support TRIM", flagDevice)
		}
		return errors.Wrapf(err, "erase %s blocks %d-%d", flagDevice, flagStart, flagEnd)
	}

	snap := metrics.Snapshot()
	fmt.Printf("%s: trimmed blocks %d-%d in %d command(s)\n",
		flagDevice, flagStart, flagEnd, snap.TrimCmds)
	return nil
}
