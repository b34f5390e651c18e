package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/bank"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/format"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/patch/patchtest"
)

// run executes the command line with an empty config file.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o600))

	return runWithConfig(t, cfg, args...)
}

func runWithConfig(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newApp(&out, &errOut).root()
	root.SetArgs(append([]string{"--config", cfg, "--log-level", "warn"}, args...))

	err := root.Execute()

	return out.String(), err
}

func writePatch(t *testing.T, dir, name string, p *patch.Patch) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, ctpatch.WriteFile(path, p))

	return path
}

func TestDecodeEncode(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	src := writePatch(t, dir, "in.syx", patchtest.Populated())
	yml := filepath.Join(dir, "patch.yaml")
	dst := filepath.Join(dir, "out.syx")

	_, err := run(t, "decode", src, "-o", yml)
	require.NoError(err)

	out, err := run(t, "encode", yml, "-o", dst)
	require.NoError(err)
	require.Contains(out, "350 bytes")

	want, err := os.ReadFile(src)
	require.NoError(err)
	got, err := os.ReadFile(dst)
	require.NoError(err)
	require.Equal(want, got)

	out, err = run(t, "decode", src)
	require.NoError(err)
	require.Contains(out, "band_pass_12db")
}

func TestEncodeEditedName(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	src := writePatch(t, dir, "in.syx", patchtest.Populated())
	yml := filepath.Join(dir, "patch.yaml")
	dst := filepath.Join(dir, "out.syx")

	_, err := run(t, "decode", src, "-o", yml)
	require.NoError(err)

	doc, err := os.ReadFile(yml)
	require.NoError(err)
	edited := bytes.Replace(doc, []byte("name: 'Initial Patch   '"), []byte("name: Bass"), 1)
	require.NoError(os.WriteFile(yml, edited, 0o644))

	_, err = run(t, "encode", yml, "-o", dst)
	require.NoError(err)

	p, err := ctpatch.ReadFile(dst)
	require.NoError(err)
	require.Equal("Bass", p.Meta.DisplayName())

	tooLong := bytes.Replace(doc, []byte("name: 'Initial Patch   '"), []byte("name: A name far too long"), 1)
	require.NoError(os.WriteFile(yml, tooLong, 0o644))

	_, err = run(t, "encode", yml, "-o", dst)
	require.ErrorIs(err, errs.ErrNameTooLong)
}

func TestCompare(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	a := writePatch(t, dir, "a.syx", patchtest.Populated())
	same := writePatch(t, dir, "same.syx", patchtest.Populated())

	changed := patchtest.Populated()
	changed.Filter.Type = patch.HighPass24dB
	b := writePatch(t, dir, "b.syx", changed)

	out, err := run(t, "compare", a, same)
	require.NoError(err)
	require.Contains(out, "identical")

	out, err = run(t, "compare", a, b)
	require.NoError(err)
	require.Contains(out, "--- "+a)
	require.Contains(out, "Filter")
}

func TestLayout(t *testing.T) {
	require := require.New(t)

	out, err := run(t, "layout")
	require.NoError(err)
	require.Contains(out, "meta.name")
	require.Regexp(`(?m)^349\s+1\s+B\s+footer\.eox$`, out)
	require.Contains(out, "lfos[1].flags")

	out, err = run(t, "layout", "--command", "replace_patch")
	require.NoError(err)
	require.Contains(out, "pack_index")
	require.Regexp(`(?m)^351\s+1\s+B\s+footer\.eox$`, out)

	_, err = run(t, "layout", "--command", "request_dump_current_patch")
	require.Error(err)
}

func TestValidate(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	good := writePatch(t, dir, "good.syx", patch.New())
	bad := filepath.Join(dir, "bad.syx")
	require.NoError(os.WriteFile(bad, []byte{0xF0, 0x00, 0xF7}, 0o644))

	out, err := run(t, "validate", good)
	require.NoError(err)
	require.Contains(out, "Initial Patch")

	out, err = run(t, "validate", good, bad)
	require.Error(err)
	require.Contains(out, "FAIL")
}

func TestGenerate(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	base := writePatch(t, dir, "base.syx", patchtest.Populated())
	outDir := filepath.Join(dir, "pads")

	_, err := run(t, "generate", base, "--preset", "pad", "--out", outDir, "--bank", "--pack", "1")
	require.NoError(err)

	p, err := ctpatch.ReadFile(filepath.Join(outDir, "32 Pad saw 0 noise.syx"))
	require.NoError(err)
	require.Equal("Pad saw 0 noise", p.Meta.DisplayName())

	data, err := os.ReadFile(filepath.Join(outDir, "bank-pad-32-39.syx"))
	require.NoError(err)
	require.Len(data, 8*352)

	entries, err := bank.Parse(data)
	require.NoError(err)
	require.Equal(patch.ReplacePatch{PackIndex: 1, PatchIndex: 39}, entries[7].Patch.Command)

	out, err := run(t, "generate", base, "--out", filepath.Join(dir, "filters"), "--start", "8")
	require.NoError(err)
	require.Contains(out, "13 high_pass_24db.syx")

	out, err = run(t, "generate", base, "--preset", "macros", "--out", filepath.Join(dir, "macros"), "--start", "96")
	require.NoError(err)
	require.Contains(out, "96 Macro 00-31.syx")

	p, err = ctpatch.ReadFile(filepath.Join(dir, "macros", "97 Macro 32-63.syx"))
	require.NoError(err)
	require.Equal(patch.MacroKnobDestination(32), p.MacroKnobs[0].Ranges[0].Destination)

	_, err = run(t, "generate", base, "--preset", "lead", "--out", dir)
	require.Error(err)
}

func TestBankCommands(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	a := writePatch(t, dir, "a.syx", patchtest.Populated())
	dup := writePatch(t, dir, "dup.syx", patchtest.Populated())
	other := patch.New()
	b := writePatch(t, dir, "b.syx", other)

	bankFile := filepath.Join(dir, "bank.syx")
	out, err := run(t, "bank", "build", a, dup, b, "--dedup", "--pack", "2", "--start", "4", "-o", bankFile)
	require.NoError(err)
	require.Contains(out, "2 patches, pack 2")

	splitDir := filepath.Join(dir, "split")
	out, err = run(t, "bank", "split", bankFile, "--out", splitDir)
	require.NoError(err)
	require.Contains(out, "04 Initial Patch.syx")

	p, err := ctpatch.ReadFile(filepath.Join(splitDir, "06 Initial Patch.syx"))
	require.NoError(err)
	require.Equal(patch.ReplacePatch{PackIndex: 2, PatchIndex: 6}, p.Command)

	archive := filepath.Join(dir, "bank.ctpb")
	out, err = run(t, "bank", "archive", bankFile, "-o", archive, "--compression", "lz4")
	require.NoError(err)
	require.Contains(out, "LZ4")

	restored := filepath.Join(dir, "restored.syx")
	out, err = run(t, "bank", "extract", archive, "-o", restored)
	require.NoError(err)
	require.Contains(out, "2 packets")

	want, err := os.ReadFile(bankFile)
	require.NoError(err)
	got, err := os.ReadFile(restored)
	require.NoError(err)
	require.Equal(want, got)

	_, err = run(t, "bank", "archive", bankFile, "-o", archive, "--compression", "brotli")
	require.ErrorIs(err, errs.ErrInvalidCompression)
}

func TestBankSend(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	a := writePatch(t, dir, "a.syx", patchtest.Populated())
	bankFile := filepath.Join(dir, "bank.syx")
	_, err := run(t, "bank", "build", a, "-o", bankFile)
	require.NoError(err)

	port := filepath.Join(dir, "midiC1D0")
	require.NoError(os.WriteFile(port, nil, 0o600))

	out, err := run(t, "bank", "send", bankFile, "--port", port, "--delay", "0s", "--pack", "3")
	require.NoError(err)
	require.Contains(out, "sent 1 messages")

	sent, err := os.ReadFile(port)
	require.NoError(err)

	entries, err := bank.Parse(sent)
	require.NoError(err)
	require.Equal(patch.ReplacePatch{PackIndex: 3, PatchIndex: 0}, entries[0].Patch.Command)
}

func TestConfig(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(path, []byte(`
port: /dev/snd/midiC2D0
delay: 250ms
pack_index: 3
compression: lz4
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := loadConfig(path, true)
	require.NoError(err)
	require.Equal("/dev/snd/midiC2D0", cfg.Port)
	require.Equal(250*time.Millisecond, cfg.Delay)
	require.Equal(uint16(3), cfg.PackIndex)
	require.Equal(format.CompressionLZ4, cfg.Compression)
	require.Equal("json", cfg.Log.Format)
	require.Equal(defaultConfig().PortName, cfg.PortName)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.ErrorIs(err, os.ErrNotExist)

	cfg, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(err)
	require.Equal(defaultConfig(), cfg)

	require.NoError(os.WriteFile(path, []byte("compression: brotli\n"), 0o600))
	_, err = loadConfig(path, true)
	require.Error(err)
}

func TestConfigFlagOverride(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(os.WriteFile(cfg, []byte("pack_index: 3\n"), 0o600))

	a := writePatch(t, dir, "a.syx", patch.New())

	out, err := runWithConfig(t, cfg, "bank", "build", a, "-o", filepath.Join(dir, "b1.syx"))
	require.NoError(err)
	require.Contains(out, "pack 3")

	out, err = runWithConfig(t, cfg, "bank", "build", a, "--pack", "5", "-o", filepath.Join(dir, "b2.syx"))
	require.NoError(err)
	require.Contains(out, "pack 5")
}
