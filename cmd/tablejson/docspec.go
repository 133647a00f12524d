// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/base64"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/creachadair/tablejson"
	"github.com/google/uuid"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// A docSpec is a human-written description of a document to encode.
//
//	partition_key: users
//	row_key: alice
//	properties:
//	  - {name: age, type: Int32, value: 37}
//	  - {name: photo, type: Binary, value: "iVBORw0K..."}  # base64
//	  - {name: seen, type: DateTime, value: "2024-01-02T03:04:05Z"}
//	  - {name: nick, type: String}                          # null
//
// If row_key is empty, only the properties are encoded.
type docSpec struct {
	PartitionKey string     `yaml:"partition_key"`
	RowKey       string     `yaml:"row_key"`
	Properties   []propSpec `yaml:"properties"`
}

type propSpec struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

// parseDocSpec parses data as a docSpec. Files named *.yaml or *.yml are
// read as YAML; anything else is read as HuJSON (JSON with comments and
// trailing commas).
func parseDocSpec(name string, data []byte) (*docSpec, error) {
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
	default:
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		data = std // standard JSON is also valid YAML
	}
	var doc docSpec
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &doc, nil
}

// properties converts the property specs of d to typed properties.
func (d *docSpec) properties() ([]tablejson.Property, error) {
	props := make([]tablejson.Property, 0, len(d.Properties))
	for i, ps := range d.Properties {
		if ps.Name == "" {
			return nil, fmt.Errorf("property %d: missing name", i+1)
		}
		typ, err := tablejson.ParseEdmType(ps.Type)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", ps.Name, err)
		}
		v, err := specValue(typ, ps.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", ps.Name, err)
		}
		props = append(props, tablejson.Property{Name: ps.Name, Value: v})
	}
	return props, nil
}

// specValue converts a decoded YAML value to a value of type typ.
func specValue(typ tablejson.EdmType, v any) (tablejson.Value, error) {
	if v == nil {
		return tablejson.Null(typ), nil
	}
	bad := func() error { return fmt.Errorf("invalid %v value %v (%T)", typ, v, v) }

	switch typ {
	case tablejson.EdmString:
		if s, ok := v.(string); ok {
			return tablejson.String(s), nil
		}
	case tablejson.EdmBinary:
		if s, ok := v.(string); ok {
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 %v value: %w", typ, err)
			}
			return tablejson.Binary(b), nil
		}
	case tablejson.EdmBoolean:
		if b, ok := v.(bool); ok {
			return tablejson.Boolean(b), nil
		}
	case tablejson.EdmDateTime:
		switch t := v.(type) {
		case time.Time:
			return tablejson.DateTime(t.UTC()), nil
		case string:
			ts, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, err
			}
			return tablejson.DateTime(ts.UTC()), nil
		case int:
			return tablejson.DateTime(time.UnixMilli(int64(t)).UTC()), nil
		}
	case tablejson.EdmDouble:
		switch t := v.(type) {
		case float64:
			return tablejson.Double(t), nil
		case int:
			return tablejson.Double(t), nil
		case string:
			f, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, bad()
			}
			return tablejson.Double(f), nil
		}
	case tablejson.EdmGuid:
		if s, ok := v.(string); ok {
			u, err := uuid.Parse(s)
			if err != nil {
				return nil, err
			}
			return tablejson.Guid(u), nil
		}
	case tablejson.EdmInt32:
		if n, ok := v.(int); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return tablejson.Int32(n), nil
		}
	case tablejson.EdmInt64:
		switch t := v.(type) {
		case int:
			return tablejson.Int64(t), nil
		case string:
			n, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				return nil, bad()
			}
			return tablejson.Int64(n), nil
		}
	}
	return nil, bad()
}
