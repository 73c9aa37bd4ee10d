package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/itohio/sciospec/pkg/config"
	"github.com/itohio/sciospec/pkg/device"
	"github.com/itohio/sciospec/pkg/protocol"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use mocked device instead of serial port")
		dryRunFlag = flag.Bool("dry-run", false, "Print the encoded frames without touching a device")
		startFlag  = flag.Bool("start", false, "Start a measurement after configuring; stop on interrupt")
		listFlag   = flag.Bool("list", false, "List serial ports and exit")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	log, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	switch {
	case *listFlag:
		err = listPorts()
	case *dryRunFlag:
		err = dryRun(cfg, log)
	default:
		err = run(cfg, log, *mockFlag, *startFlag)
	}
	if err != nil {
		log.WithError(err).Fatal("Failed")
	}
}

func listPorts() error {
	ports, err := device.Ports()
	if err != nil {
		return err
	}
	for _, p := range ports {
		if p.IsUSB {
			fmt.Printf("%s\t%s\t%s:%s\n", p.Name, p.Description, p.VID, p.PID)
		} else {
			fmt.Printf("%s\t%s\n", p.Name, p.Description)
		}
	}
	return nil
}

// dryRun prints the encoded configuration as hex, one frame per line.
func dryRun(cfg *config.Config, log *logrus.Logger) error {
	seq, notices, err := protocol.Encode(cfg.Measurement.Snapshot())
	for _, n := range notices {
		log.WithField("field", n.Field).Warn(n.Message)
	}
	if err != nil {
		return err
	}

	for _, line := range seq.Strings() {
		fmt.Println(line)
	}
	return nil
}

func run(cfg *config.Config, log *logrus.Logger, useMock, start bool) error {
	metrics, err := device.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	if cfg.Metrics.Listen != "" {
		go serveMetrics(cfg.Metrics.Listen, log)
	}

	var dev device.Device
	if useMock {
		dev = device.NewMock(&cfg.Mock)
	} else {
		dev = device.New(cfg.Serial.Port, cfg.Serial.BaudRate, log)
	}

	if err := dev.Connect(); err != nil {
		return err
	}
	defer dev.Close()

	session := device.NewSession(dev, metrics, log)
	if _, err := session.Configure(cfg.Measurement.Snapshot()); err != nil {
		return err
	}

	if !start {
		return nil
	}

	if err := session.StartMeasurement(); err != nil {
		return err
	}
	log.Info("Measurement started, press Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return session.StopMeasurement()
}

func serveMetrics(addr string, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.WithField("addr", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Metrics server stopped")
	}
}
