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

// Package config loads the udplinkctl command's own settings: which role to
// run as, the peer address, the negotiated shape, and the two ports. It is
// deliberately scoped to the CLI tool, not the transport: Session itself
// never reads a file, an environment variable, or a flag directly.
package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Settings is the CLI tool's own configuration, independent of anything the
// wire protocol negotiates at handshake time.
type Settings struct {
	Role          string `mapstructure:"role"` // "server" or "client"
	PeerHost      string `mapstructure:"peer_host"`
	PeerPort      int    `mapstructure:"peer_port"`
	TCPPort       int    `mapstructure:"tcp_port"`
	NumInputs     int    `mapstructure:"num_inputs"`
	NumOutputs    int    `mapstructure:"num_outputs"`
	LocalMaxAgeMS int    `mapstructure:"local_max_age_ms"`
	LogLevel      string `mapstructure:"log_level"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("role", "client")
	v.SetDefault("peer_host", "127.0.0.1")
	v.SetDefault("peer_port", 9000)
	v.SetDefault("tcp_port", 9001)
	v.SetDefault("num_inputs", 0)
	v.SetDefault("num_outputs", 0)
	v.SetDefault("local_max_age_ms", 200)
	v.SetDefault("log_level", "info")
}

// Loader reads Settings from a file and can notify a callback whenever that
// file changes on disk, so a long-running udplinkctl process can pick up a
// new peer address or shape without a restart.
type Loader struct {
	v *viper.Viper
}

// Load reads settings from path (any format viper supports by extension:
// yaml, json, toml). Environment variables prefixed EXCAVATOR_LINK_ override
// file values, matching the precedence viper itself documents.
func Load(path string) (*Loader, Settings, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("excavator_link")
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, Settings{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, Settings{}, fmt.Errorf("decoding config %s: %w", path, err)
	}

	return &Loader{v: v}, s, nil
}

// Watch invokes onChange with the freshly decoded Settings every time the
// underlying file is rewritten. It returns immediately; the watch runs on
// viper's own fsnotify-backed goroutine for the lifetime of the process.
func (l *Loader) Watch(onChange func(Settings)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		var s Settings
		if err := l.v.Unmarshal(&s); err != nil {
			return
		}
		onChange(s)
	})
	l.v.WatchConfig()
}
