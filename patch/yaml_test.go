package patch_test

import (
	"strings"
	"testing"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/patch/patchtest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLRoundTrip(t *testing.T) {
	for _, p := range []*patch.Patch{patchtest.Populated(), patchtest.Populated().StoreAt(3, 12)} {
		out, err := yaml.Marshal(p)
		require.NoError(t, err)

		var back patch.Patch
		require.NoError(t, yaml.Unmarshal(out, &back))
		require.Empty(t, cmp.Diff(*p, back))
	}
}

func TestYAMLNames(t *testing.T) {
	out, err := yaml.Marshal(patchtest.Populated())
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, "type: replace_current_patch")
	require.Contains(t, s, "type: band_pass_12db")
	require.Contains(t, s, "fade_mode: fade_out")
	require.Contains(t, s, "Initial Patch")
}

func TestYAMLUnknownCommand(t *testing.T) {
	var p patch.Patch
	err := yaml.Unmarshal([]byte("command:\n  type: request_dump_current_patch\n"), &p)
	require.Error(t, err)
}

func TestYAMLEditedName(t *testing.T) {
	out, err := yaml.Marshal(patchtest.Populated())
	require.NoError(t, err)

	doc := string(out)
	require.Contains(t, doc, "name: 'Initial Patch   '")

	tests := []struct {
		name    string
		line    string
		stored  string
		display string
		target  error
	}{
		{name: "short", line: "name: Bass", stored: "Bass            ", display: "Bass"},
		{name: "empty", line: "name: ''", stored: strings.Repeat(" ", 16), display: ""},
		{name: "exact", line: "name: Sixteen chars!!!", stored: "Sixteen chars!!!", display: "Sixteen chars!!!"},
		{name: "too long", line: "name: Seventeen chars!!", target: errs.ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edited := strings.Replace(doc, "name: 'Initial Patch   '", tt.line, 1)

			var p patch.Patch
			err := yaml.Unmarshal([]byte(edited), &p)
			if tt.target != nil {
				require.ErrorIs(t, err, tt.target)
				return
			}
			require.NoError(t, err)
			require.Equal(t, patch.Text(tt.stored), p.Meta.Name)
			require.Equal(t, tt.display, p.Meta.DisplayName())

			buf, err := ctpatch.Encode(&p)
			require.NoError(t, err)
			require.Len(t, buf, 350)

			back, err := ctpatch.Decode(buf)
			require.NoError(t, err)
			require.Equal(t, tt.display, back.Meta.DisplayName())
		})
	}
}
