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
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/slamd/internal/loadclient"
	"github.com/nabbar/slamd/internal/logging"
)

const clientVersion = "1.0.0"

func main() {
	log := logging.New()

	var (
		addr       string
		authID     string
		credential string
		clientID   string
	)

	cmd := &spfcbr.Command{
		Use:   "slamd-client",
		Short: "Runs a SLAMD load-generator daemon, connecting out to the coordinator.",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sig
				log.Info("shutdown signal received", nil)
				cancel()
			}()

			return run(ctx, log, addr, authID, credential, clientID)
		},
	}

	cmd.Flags().StringVar(&addr, "server", "127.0.0.1:7713", "coordinator address (host:port)")
	cmd.Flags().StringVar(&authID, "auth-id", "", "auth id presented at handshake")
	cmd.Flags().StringVar(&credential, "credential", "", "credential presented at handshake")
	cmd.Flags().StringVar(&clientID, "client-id", "", "stable client identifier; defaults to the local hostname")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger, addr, authID, credential, clientID string) error {
	if clientID == "" {
		if h, err := os.Hostname(); err == nil {
			clientID = h
		}
	}

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if err := connectOnce(ctx, log, addr, authID, credential, clientID); err != nil {
			log.Warning("connection lost", logging.Fields{"error": err.Error(), "retry_in": backoff.String()})
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func connectOnce(ctx context.Context, log logging.Logger, addr, authID, credential, clientID string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c := loadclient.New(conn, loadclient.Config{
		AuthID:        authID,
		Credential:    credential,
		ClientID:      clientID,
		ClientVersion: clientVersion,
	})

	if herr := c.Handshake(); herr != nil {
		return herr
	}
	log.Info("connected to coordinator", logging.Fields{"server": addr, "client_id": clientID})

	rerr := c.Run(ctx)
	if rerr != nil {
		return rerr
	}
	return nil
}
