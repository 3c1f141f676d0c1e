/*
 * MIT License
 *
 * Copyright (c) 2026 excavator-link contributors
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

// Command udplinkctl drives one end of a point-to-point link from the
// command line: open it, watch its status, or run a one-shot handshake
// check against a peer.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fieldrig/excavator-link/config"
	"github.com/fieldrig/excavator-link/metrics"
	"github.com/fieldrig/excavator-link/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "udplinkctl",
		Short: "Open and inspect excavator-link UDP sessions",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "link.yaml", "path to the link configuration file")

	root.AddCommand(runCmd())
	root.AddCommand(checkCmd())

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var metricsAddr string
	var statusInterval time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a session and keep it running until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			rec := metrics.New(s.Role)

			sess := session.New(
				session.WithTCPPort(s.TCPPort),
				session.WithLocalMaxAge(time.Duration(s.LocalMaxAgeMS)*time.Millisecond),
				session.WithRecorder(rec),
			)

			isServer := s.Role == "server"
			if err := sess.Setup(s.PeerHost, s.PeerPort, s.NumInputs, s.NumOutputs, isServer); err != nil {
				return fmt.Errorf("setup: %w", err)
			}
			defer func() { _ = sess.Close() }()

			if err := sess.Handshake(15 * time.Second); err != nil {
				return fmt.Errorf("handshake: %w", err)
			}
			color.Green("handshake complete: role=%s peer=%s:%d", s.Role, s.PeerHost, s.PeerPort)

			if err := sess.Start(); err != nil {
				return fmt.Errorf("start: %w", err)
			}

			if metricsAddr != "" {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
					_ = http.ListenAndServe(metricsAddr, mux)
				}()
				color.Cyan("metrics listening on %s/metrics", metricsAddr)
			}

			printStatus(sess.GetStatus())

			ticker := time.NewTicker(statusInterval)
			defer ticker.Stop()
			for range ticker.C {
				printStatus(sess.GetStatus())
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9102")
	cmd.Flags().DurationVar(&statusInterval, "status-interval", 2*time.Second, "how often to print a status snapshot")
	return cmd
}

// printStatus renders one GetStatus snapshot the way a human watching a
// terminal wants it: green while packets are flowing, yellow once nothing
// has arrived in a while.
func printStatus(st session.Status) {
	line := fmt.Sprintf("role=%s recv=%d sent=%d expired=%d corrupted=%d shape_invalid=%d since_last=%s",
		st.Role, st.PacketsReceived, st.PacketsSent, st.PacketsExpired,
		st.PacketsCorrupted, st.PacketsShapeInvalid, st.SinceLastPacket)

	if st.SinceLastPacket < 0 || st.SinceLastPacket > time.Second {
		color.Yellow(line)
	} else {
		color.Green(line)
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Perform a handshake against the configured peer and report the negotiated shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			sess := session.New(session.WithTCPPort(s.TCPPort))
			isServer := s.Role == "server"
			if err := sess.Setup(s.PeerHost, s.PeerPort, s.NumInputs, s.NumOutputs, isServer); err != nil {
				return fmt.Errorf("setup: %w", err)
			}
			defer func() { _ = sess.Close() }()

			if err := sess.Handshake(5 * time.Second); err != nil {
				color.Red("handshake failed: %v", err)
				return err
			}

			st := sess.GetStatus()
			color.Green("handshake ok")
			fmt.Printf("  send_type:    %s\n", st.SendType)
			fmt.Printf("  receive_type: %s\n", st.ReceiveType)
			fmt.Printf("  num_inputs:   %d\n", st.NumInputs)
			fmt.Printf("  num_outputs:  %d\n", st.NumOutputs)
			return nil
		},
	}
}
