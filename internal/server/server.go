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

// Package server wires every SLAMD subsystem — the client/monitor registry,
// the scheduler, the blob store, the auth backend, the Prometheus
// collectors and the admin HTTP API — into a single config.Component that
// owns the TCP listener's accept loop.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	"github.com/nabbar/slamd/internal/adminapi"
	"github.com/nabbar/slamd/internal/auth"
	"github.com/nabbar/slamd/internal/blobstore"
	"github.com/nabbar/slamd/internal/config"
	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/metrics"
	"github.com/nabbar/slamd/internal/optimizer"
	"github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/registry"
	"github.com/nabbar/slamd/internal/scheduler"
	"github.com/nabbar/slamd/internal/stats"
)

// sumCounterObjective is the default optimizing-job objective: the sum of
// every *stats.Counter attached to the completed iteration's Job, since
// every built-in job class emits at least one counter-kind tracker. A
// deployment optimizing a time-series or histogram metric instead builds
// its own optimizer.Driver with a job-class-specific Objective.
func sumCounterObjective(j *job.Job) (float64, errs.Error) {
	var total float64
	for _, t := range j.Statistics() {
		if c, ok := t.(*stats.Counter); ok {
			total += float64(c.Total())
		}
	}
	return total, nil
}

// Config is the server component's decoded configuration model.
type Config struct {
	ListenAddr        string `json:"listen_addr" mapstructure:"listen_addr"`
	MonitorListenAddr string `json:"monitor_listen_addr" mapstructure:"monitor_listen_addr"`
	AdminAddr         string `json:"admin_addr" mapstructure:"admin_addr"`
	MinClientVersion  string `json:"min_client_version" mapstructure:"min_client_version"`

	BlobStoreDriver string `json:"blobstore_driver" mapstructure:"blobstore_driver"` // only "fs" (or empty) is accepted
	BlobStoreFSRoot string `json:"blobstore_fs_root" mapstructure:"blobstore_fs_root"`

	AuthStatic map[string]string `json:"auth_static" mapstructure:"auth_static"`

	AuthLDAPEnabled bool            `json:"auth_ldap_enabled" mapstructure:"auth_ldap_enabled"`
	AuthLDAP        auth.LDAPConfig `json:"auth_ldap" mapstructure:"auth_ldap"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:        ":7713",
		MonitorListenAddr: ":7715",
		AdminAddr:         ":7714",
		MinClientVersion:  "",
		BlobStoreDriver:   "fs",
		BlobStoreFSRoot:   "./slamd-data",
		AuthStatic:        map[string]string{},
	}
}

// Server is the top-level config.Component driving SLAMD's server side: it
// accepts load-generator and resource-monitor handshakes, dispatches jobs
// through the scheduler, and serves the operator's admin HTTP API.
type Server struct {
	log logging.Logger

	cfg Config

	reg   *registry.Registry
	sched *scheduler.Scheduler
	drv   *optimizer.Driver
	store blobstore.Store
	coll  *metrics.Collector
	valid endpoint.AuthValidator

	admin *adminapi.Server

	ln    net.Listener
	lnMon net.Listener

	runCtx    context.Context
	runCancel context.CancelFunc
	wg        sync.WaitGroup

	started atomic.Bool
	connSeq atomic.Int64
}

// New builds a Server bound to log. Start must be called before it accepts
// connections.
func New(log logging.Logger) *Server {
	return &Server{log: log}
}

func (s *Server) Type() string { return "server" }

func (s *Server) RegisterFlag(cmd *spfcbr.Command, vpr *spfvpr.Viper) error {
	cmd.Flags().String("listen-addr", defaultConfig().ListenAddr, "TCP address the load-generator protocol listens on")
	cmd.Flags().String("monitor-listen-addr", defaultConfig().MonitorListenAddr, "TCP address the resource-monitor protocol listens on")
	cmd.Flags().String("admin-addr", defaultConfig().AdminAddr, "HTTP address the operator admin API listens on")
	cmd.Flags().String("blobstore-driver", defaultConfig().BlobStoreDriver, "blob store backend: fs (the only driver selectable here)")
	cmd.Flags().String("blobstore-fs-root", defaultConfig().BlobStoreFSRoot, "root directory for the filesystem blob store")

	return vpr.BindPFlags(cmd.Flags())
}

func (s *Server) Dependencies() []string { return nil }

func (s *Server) IsStarted() bool { return s.started.Load() }

func (s *Server) IsRunning(atLeast bool) bool {
	if !s.started.Load() {
		return false
	}
	if atLeast {
		return s.ln != nil || s.lnMon != nil
	}
	return s.ln != nil && s.lnMon != nil
}

func (s *Server) DefaultConfig(indent string) []byte {
	p, err := json.MarshalIndent(defaultConfig(), "", indent)
	if err != nil {
		return nil
	}
	return p
}

func (s *Server) newBlobStore(cfg Config) (blobstore.Store, errs.Error) {
	switch cfg.BlobStoreDriver {
	case "", "fs":
		return blobstore.NewFSStore(cfg.BlobStoreFSRoot)
	default:
		return nil, errs.CodeConfigInvalid.Errorf("blobstore driver %q is not selectable from server config; build an S3Store/SQLStore and wire it directly", cfg.BlobStoreDriver)
	}
}

func (s *Server) newValidator(cfg Config) endpoint.AuthValidator {
	if cfg.AuthLDAPEnabled {
		return auth.NewLDAPValidator(cfg.AuthLDAP).Validator()
	}
	return auth.NewStaticTable(cfg.AuthStatic).Validator()
}

// Start brings every subsystem up and begins accepting connections. It
// returns once the listener is bound; the accept loop runs in the
// background until Stop is called.
func (s *Server) Start(get config.FuncConfigGet) errs.Error {
	cfg := defaultConfig()
	if get != nil {
		if err := get("server", &cfg); err != nil {
			return errs.CodeConfigInvalid.Error(err)
		}
	}
	s.cfg = cfg

	store, err := s.newBlobStore(cfg)
	if err != nil {
		return err
	}
	s.store = store

	s.reg = registry.New()
	s.sched = scheduler.New(s.log, s.reg)
	s.drv = optimizer.New(s.log, s.sched, sumCounterObjective)
	s.coll = metrics.NewCollector()
	s.valid = s.newValidator(cfg)

	s.admin = adminapi.New(s.log, s.sched, s.drv, s.coll, s.valid, adminapi.Config{Addr: cfg.AdminAddr})

	ln, lerr := net.Listen("tcp", cfg.ListenAddr)
	if lerr != nil {
		return errs.CodeTransportIO.Error(lerr)
	}
	s.ln = ln

	lnMon, merr := net.Listen("tcp", cfg.MonitorListenAddr)
	if merr != nil {
		_ = ln.Close()
		return errs.CodeTransportIO.Error(merr)
	}
	s.lnMon = lnMon

	s.runCtx, s.runCancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sched.Run(s.runCtx)
	}()

	s.wg.Add(1)
	go s.acceptClientLoop()

	s.wg.Add(1)
	go s.acceptMonitorLoop()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if aerr := s.admin.Run(s.runCtx); aerr != nil {
			s.log.Error("admin API server stopped", logging.Fields{"error": aerr.Error()})
		}
	}()

	s.started.Store(true)
	s.log.Info("server started", logging.Fields{"listen": cfg.ListenAddr, "monitor_listen": cfg.MonitorListenAddr, "admin": cfg.AdminAddr})
	return nil
}

func (s *Server) Reload(get config.FuncConfigGet) errs.Error {
	cfg := s.cfg
	if get != nil {
		if err := get("server", &cfg); err != nil {
			return errs.CodeConfigInvalid.Error(err)
		}
	}
	s.valid = s.newValidator(cfg)
	s.cfg = cfg
	return nil
}

func (s *Server) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}
	if s.ln != nil {
		_ = s.ln.Close()
	}
	if s.lnMon != nil {
		_ = s.lnMon.Close()
	}
	if s.runCancel != nil {
		s.runCancel()
	}
	s.wg.Wait()
	s.log.Info("server stopped", nil)
}

func (s *Server) nextConnID() string {
	n := s.connSeq.Add(1)
	return fmt.Sprintf("conn-%d-%s", n, uuid.NewString())
}

func (s *Server) acceptClientLoop() {
	defer s.wg.Done()
	for {
		raw, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.runCtx.Done():
				return
			default:
				s.log.Warning("client accept failed", logging.Fields{"error": err.Error()})
				continue
			}
		}
		c := endpoint.New(s.nextConnID(), raw.RemoteAddr().String(), raw, endpoint.DefaultConfig())
		s.wg.Add(1)
		go s.handleClient(c)
	}
}

func (s *Server) acceptMonitorLoop() {
	defer s.wg.Done()
	for {
		raw, err := s.lnMon.Accept()
		if err != nil {
			select {
			case <-s.runCtx.Done():
				return
			default:
				s.log.Warning("monitor accept failed", logging.Fields{"error": err.Error()})
				continue
			}
		}
		c := endpoint.New(s.nextConnID(), raw.RemoteAddr().String(), raw, endpoint.DefaultConfig())
		s.wg.Add(1)
		go s.handleMonitor(c)
	}
}

func (s *Server) handleClient(c *endpoint.Conn) {
	defer s.wg.Done()

	ident, herr := c.ServerHello(s.cfg.MinClientVersion, s.valid)
	if herr != nil {
		s.log.Warning("client handshake rejected", logging.Fields{"connection": c.ConnectionID, "error": herr.Error()})
		return
	}

	cc := endpoint.NewClientConn(c)
	s.reg.RegisterClient(&registry.ClientRecord{
		ConnectionID: c.ConnectionID,
		AuthID:       ident.AuthID,
		Host:         c.Host,
		ClientID:     ident.ClientID,
		Status:       registry.ClientIdle,
	})
	s.coll.ConnectedClients.Inc()
	s.sched.Attach(cc)

	defer func() {
		s.sched.Detach(c.ConnectionID)
		s.reg.UnregisterClient(c.ConnectionID)
		s.coll.ConnectedClients.Dec()
	}()

	if rerr := c.Run(s.runCtx); rerr != nil {
		s.log.Debug("client connection closed", logging.Fields{"connection": c.ConnectionID, "error": rerr.Error()})
	}
}

func (s *Server) handleMonitor(c *endpoint.Conn) {
	defer s.wg.Done()

	ident, herr := c.ServerHelloMonitor(s.valid)
	if herr != nil {
		s.log.Warning("monitor handshake rejected", logging.Fields{"connection": c.ConnectionID, "error": herr.Error()})
		return
	}

	mc := endpoint.NewMonitorConn(c)
	s.reg.RegisterMonitor(&registry.MonitorRecord{
		ConnectionID: c.ConnectionID,
		AuthID:       ident.AuthID,
		Host:         c.Host,
	})

	// A monitor's own KeepAlive echo must not fall into Conn.Run's
	// unmatched-message-id branch and tear the connection down.
	c.Handle(protocol.TagKeepAlive, func(*endpoint.Conn, protocol.Envelope) {})

	defer s.reg.UnregisterMonitor(c.ConnectionID)

	if rerr := mc.Run(s.runCtx); rerr != nil {
		s.log.Debug("monitor connection closed", logging.Fields{"connection": c.ConnectionID, "error": rerr.Error()})
	}
}
