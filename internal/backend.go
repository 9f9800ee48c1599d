package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pwmfan/pwmfan/internal/api"
	"github.com/pwmfan/pwmfan/internal/config"
	"github.com/pwmfan/pwmfan/internal/configuration"
	"github.com/pwmfan/pwmfan/internal/controller"
	"github.com/pwmfan/pwmfan/internal/persistence"
	"github.com/pwmfan/pwmfan/internal/pwm"
	"github.com/pwmfan/pwmfan/internal/statistics"
	"github.com/pwmfan/pwmfan/internal/ui"
	"github.com/pwmfan/pwmfan/internal/util"
	"github.com/pwmfan/pwmfan/internal/wifi"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

func RunDaemon() {
	cfg := configuration.CurrentConfig

	if (cfg.Pwm.Enabled || cfg.Wifi.Enabled) && getProcessOwner() != "root" {
		ui.Fatal("Controlling PWM outputs and the access point requires root permissions, please run pwmfan as root")
	}

	store, err := CreateConfigStore(cfg)
	if err != nil {
		ui.Fatal("Unable to initialize storage: %v", err)
	}

	deviceConfig := store.Load()
	ApplyOverrides(deviceConfig, cfg.Overrides)

	contr := controller.NewController(
		store,
		deviceConfig,
		createOutput(cfg.Pwm),
		createAccessPoint(cfg.Wifi),
		cfg.ControllerAdjustmentTickRate,
		cfg.HistorySize,
	)

	registry := statistics.NewRegistry()
	statistics.Register(registry, statistics.NewConfigCollector(contr))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === device controller
		g.Add(func() error {
			err := contr.Run(ctx)
			ui.Info("Controller stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error in controller: %v", err)
			}
			cancel()
		})
	}
	if cfg.Api.Enabled {
		// === REST api
		rest := api.CreateRestService(contr, cfg.Api.WebRoot, registry)
		addr := fmt.Sprintf("%s:%d", cfg.Api.Host, cfg.Api.Port)

		g.Add(func() error {
			ui.Info("Starting REST api on %s", addr)
			if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start REST api: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping REST api...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := rest.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping REST api: %v", err)
			}
		})
	}
	if cfg.Statistics.Enabled {
		if cfg.Api.Enabled && cfg.Api.Port == cfg.Statistics.Port {
			ui.Info("Statistics are served by the REST api on port %d", cfg.Api.Port)
		} else {
			// === Prometheus Exporter
			addr := fmt.Sprintf(":%d", cfg.Statistics.Port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			server := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// CreateConfigStore creates the store of the device config as configured by the daemon settings
func CreateConfigStore(cfg configuration.Configuration) (*persistence.ConfigStore, error) {
	storage, err := persistence.NewStorage(cfg.Storage, cfg.DbPath)
	if err != nil {
		return nil, err
	}
	if err := storage.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrStorageUnavailable, err)
	}
	path, err := util.ExpandPath(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	return persistence.NewConfigStore(storage, path), nil
}

// ApplyOverrides sets the given keys on top of the loaded config, in key order.
// Unknown keys are skipped with a warning.
func ApplyOverrides(c *config.Config, overrides map[string]string) {
	for _, key := range util.SortedKeys(overrides) {
		outcome, err := c.SetValue(key, overrides[key])
		if err != nil {
			ui.Warning("Ignoring override %s: %v", key, err)
			continue
		}
		ui.Debug("Override %s=%s %s", key, overrides[key], outcome)
	}
}

func createOutput(cfg configuration.PwmConfig) pwm.Output {
	if !cfg.Enabled {
		ui.Warning("PWM output is disabled, duty cycles are only kept in memory")
		return pwm.NewMemoryOutput()
	}
	return pwm.NewSysfsOutput(cfg.ChipPath)
}

func createAccessPoint(cfg configuration.WifiConfig) wifi.AccessPoint {
	if !cfg.Enabled {
		return wifi.NewDisabledAccessPoint()
	}
	outputDir, err := util.ExpandPath(cfg.OutputDir)
	if err != nil {
		ui.Fatal("Invalid access point output directory %s: %v", cfg.OutputDir, err)
	}
	return wifi.NewHostapdAccessPoint(outputDir, cfg.Interface, cfg.MaxConnections)
}

func getProcessOwner() string {
	stdout, err := exec.Command("ps", "-o", "user=", "-p", strconv.Itoa(os.Getpid())).Output()
	if err != nil {
		ui.Fatal("Error checking process owner: %v", err)
	}
	return strings.TrimSpace(string(stdout))
}
