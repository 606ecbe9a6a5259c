/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/slamd/internal/config"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/server"
)

func main() {
	log := logging.New()

	mgr := config.NewManager(log)
	srv := server.New(log)
	mgr.Set("server", srv)

	cmd := &spfcbr.Command{
		Use:   "slamd-server",
		Short: "Runs the SLAMD load-generation coordinator.",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			if cfgFile != "" {
				mgr.Viper().SetConfigFile(cfgFile)
				if err := mgr.Viper().ReadInConfig(); err != nil {
					return fmt.Errorf("reading config file %s: %w", cfgFile, err)
				}
			}

			if err := mgr.Start(nil); err != nil {
				return fmt.Errorf("starting server: %w", err)
			}
			mgr.WatchConfig()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			log.Info("shutdown signal received", nil)
			mgr.Stop()
			return nil
		},
	}
	cmd.Flags().String("config", "", "path to a YAML/JSON/TOML configuration file")

	if err := mgr.RegisterFlag(cmd, mgr.Viper()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
