// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command graphiti-verify checks whether a Cypher query and a SQL query
// are semantically equivalent over a given graph schema. It reads the
// graph schema, Cypher source, and SQL source from files, runs
// internal/verify.Verify, and prints the resulting Report as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/graphiti-verify/graphiti/internal/config"
	"github.com/graphiti-verify/graphiti/internal/gschema"
	"github.com/graphiti-verify/graphiti/internal/logx"
	"github.com/graphiti-verify/graphiti/internal/verify"
	"github.com/sirupsen/logrus"
)

var (
	dashschema  string
	dashcypher  string
	dashsql     string
	dashconfig  string
	dashbound   int
	dashtimeout time.Duration
	dashsem     string
	dashbackend string
	dashverbose bool
)

func init() {
	flag.StringVar(&dashschema, "schema", "", "path to graph schema JSON (required)")
	flag.StringVar(&dashcypher, "cypher", "", "path to Cypher query file (required)")
	flag.StringVar(&dashsql, "sql", "", "path to SQL query file (required)")
	flag.StringVar(&dashconfig, "config", "", "path to a YAML defaults file (optional)")
	flag.IntVar(&dashbound, "bound-max", 0, "override bound_max (0 keeps the config value)")
	flag.DurationVar(&dashtimeout, "timeout", 0, "override timeout (0 keeps the config value)")
	flag.StringVar(&dashsem, "semantics", "", "override semantics: bag|set|list (empty keeps the config value)")
	flag.StringVar(&dashbackend, "backend", "", "override backend: symbolic|normalize (empty keeps the config value)")
	flag.BoolVar(&dashverbose, "v", false, "enable debug-level logging of each bound attempt")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

// run implements spec.md §6's "Process exit": 0 Equivalent, 1
// NotEquivalent, 2 Timeout/Unknown, 64 usage/parse errors.
func run() int {
	if dashverbose {
		logx.SetLevel(logrus.DebugLevel)
	}

	if dashschema == "" || dashcypher == "" || dashsql == "" {
		fmt.Fprintln(os.Stderr, "usage: graphiti-verify -schema FILE -cypher FILE -sql FILE [flags]")
		flag.PrintDefaults()
		return 64
	}

	cfg := config.Default()
	if dashconfig != "" {
		loaded, err := config.Load(dashconfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "graphiti-verify: %v\n", err)
			return 64
		}
		cfg = loaded
	}
	if dashbound > 0 {
		cfg.BoundMax = dashbound
	}
	if dashtimeout > 0 {
		cfg.Timeout = dashtimeout
	}
	if dashsem != "" {
		cfg.Semantics = dashsem
	}
	if dashbackend != "" {
		cfg.Backend = dashbackend
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "graphiti-verify: %v\n", err)
		return 64
	}

	schemaData, err := os.ReadFile(dashschema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphiti-verify: reading schema: %v\n", err)
		return 64
	}
	schema, err := gschema.ParseJSON(schemaData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphiti-verify: %v\n", err)
		return 64
	}

	cypherData, err := os.ReadFile(dashcypher)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphiti-verify: reading cypher: %v\n", err)
		return 64
	}
	sqlData, err := os.ReadFile(dashsql)
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphiti-verify: reading sql: %v\n", err)
		return 64
	}

	report := verify.Verify(string(cypherData), string(sqlData), schema, cfg)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "graphiti-verify: encoding report: %v\n", err)
		return 64
	}

	switch report.Result {
	case verify.Equivalent:
		return 0
	case verify.NotEquivalent:
		return 1
	case verify.SyntaxError:
		return 64
	default: // Timeout, Unknown, NotSupported
		return 2
	}
}
