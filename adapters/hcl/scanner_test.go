package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
)

const goodCircuit = `
device "straight" "wg1" {
  length = 10
  width  = 0.5
}

device "racetrack" "ring1" {
  radius         = 5
  gap            = 0.22
  coupler_length = 5
}

sweep "main" {
  start  = 1.5
  stop   = 1.6
  points = 11
}

model "waveguide" {
  pack = "packs/wg.json"
}
`

func writeCircuit(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "ring.pic.hcl", goodCircuit)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, result.Err())
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Devices, 2)
	wg := result.Devices[0]
	assert.Equal(t, types.DeviceAddress("straight.wg1"), wg.Address)
	assert.Equal(t, types.DeviceStraight, wg.Kind)
	assert.Equal(t, "wg1", wg.Name)
	assert.Equal(t, 10.0, wg.Attributes.GetFloat("length"))
	assert.Equal(t, 0.5, wg.Attributes.GetFloat("width"))
	assert.Equal(t, "ring.pic.hcl", wg.SourceFile)
	assert.Equal(t, 2, wg.SourceLine)

	ring := result.Devices[1]
	assert.Equal(t, types.DeviceRacetrack, ring.Kind)
	assert.Equal(t, 0.22, ring.Attributes.GetFloat("gap"))

	sw, ok := result.Sweeps["main"]
	require.True(t, ok)
	assert.Equal(t, 1.5, sw.Start)
	assert.Equal(t, 1.6, sw.Stop)
	assert.Equal(t, 11, sw.Points)

	assert.Equal(t, "packs/wg.json", result.Models["waveguide"])
}

func TestScanSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCircuit(t, dir, "ring.pic.hcl", goodCircuit)

	result, err := NewScanner().Scan(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, result.Devices, 2)
	assert.Equal(t, "ring.pic.hcl", result.Devices[0].SourceFile)
}

func TestScanRejectsNonCircuitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCircuit(t, dir, "notes.txt", "hello")

	_, err := NewScanner().Scan(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
}

func TestScanBandSweep(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "band.pic.hcl", `
sweep "cband" {
  band   = "c"
  points = 25
}
`)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	sw := result.Sweeps["cband"]
	assert.Equal(t, 1.53, sw.Start)
	assert.Equal(t, 1.565, sw.Stop)
	assert.Equal(t, 25, sw.Points)
}

func TestScanUnknownBand(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "band.pic.hcl", `
sweep "bad" {
  band = "x"
}
`)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Error(t, result.Err())
	assert.True(t, errors.IsType(result.Err(), errors.TypeParsing))
}

func TestScanInvalidSweep(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "bad.pic.hcl", `
sweep "bad" {
  start  = 1.6
  stop   = 1.5
  points = 10
}
`)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, `sweep "bad"`)
	assert.Empty(t, result.Sweeps)
}

func TestScanUnknownDeviceKind(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "odd.pic.hcl", `
device "spiral" "s1" {
  turns = 4
}
`)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	// Unknown kinds are kept but flagged.
	require.Len(t, result.Devices, 1)
	assert.False(t, result.Devices[0].Kind.IsValid())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, `unknown device kind "spiral"`)
}

func TestScanMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "broken.pic.hcl", `device "straight" {`)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Error(t, result.Err())
	assert.True(t, errors.IsType(result.Err(), errors.TypeParsing))
	assert.NotEmpty(t, result.Errors)
	assert.NotZero(t, result.Errors[0].Line)
}

func TestScanNonLiteralAttribute(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "ref.pic.hcl", `
device "straight" "wg1" {
  length = var.length
  width  = 0.5
}
`)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	require.Len(t, result.Devices, 1)
	attrs := result.Devices[0].Attributes
	assert.False(t, attrs.Has("length"))
	assert.Equal(t, 0.5, attrs.GetFloat("width"))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, `"length"`)
}

func TestScanMissingModelPack(t *testing.T) {
	dir := t.TempDir()
	writeCircuit(t, dir, "model.pic.hcl", `
model "waveguide" {
}
`)

	result, err := NewScanner().Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "pack")
}

func TestCanScan(t *testing.T) {
	dir := t.TempDir()

	ok, err := NewScanner().CanScan(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, ok)

	path := writeCircuit(t, dir, "a.pic.hcl", "")
	ok, err = NewScanner().CanScan(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewScanner().CanScan(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGoValue(t *testing.T) {
	v, err := GoValue(cty.StringVal("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", v)

	v, err = GoValue(cty.NumberFloatVal(1.55))
	require.NoError(t, err)
	assert.Equal(t, 1.55, v)

	v, err = GoValue(cty.BoolVal(true))
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = GoValue(cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0}, v)

	v, err = GoValue(cty.ObjectVal(map[string]cty.Value{"a": cty.StringVal("b")}))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": "b"}, v)

	v, err = GoValue(cty.NullVal(cty.String))
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = GoValue(cty.UnknownVal(cty.String))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestAttributeTypeName(t *testing.T) {
	attr, err := Attribute(cty.NumberFloatVal(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.5, attr.Value)
	assert.Equal(t, "number", attr.Type)
}
