package rule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"swiftstyle/internal/diag"
)

func testRule(id string, code diag.Code) *Rule {
	return &Rule{
		ID:       id,
		Code:     code,
		Severity: diag.SevWarning,
		Params: []Param{
			{Name: "max", Kind: ParamInt, Default: 10, Min: 1},
			{Name: "names", Kind: ParamList, Default: []string(nil)},
		},
		Check: func(*Pass) {},
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(testRule("a", diag.StyLineLength), testRule("a", diag.StyIndentation))
	require.Error(t, err)

	_, err = NewRegistry(testRule("a", diag.StyLineLength), testRule("b", diag.StyLineLength))
	require.Error(t, err)

	reg, err := NewRegistry(testRule("b", diag.StyIndentation), testRule("a", diag.StyLineLength))
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())
	require.Equal(t, []string{"a", "b"}, reg.IDs())
	require.Equal(t, "b", reg.All()[0].ID)
}

func TestSettingsFallBackToDefaults(t *testing.T) {
	rl := testRule("a", diag.StyLineLength)
	reg, err := NewRegistry(rl)
	require.NoError(t, err)

	st := Settings{}.For(rl)
	require.True(t, st.Enabled)
	require.Equal(t, diag.SevWarning, st.Severity)
	require.Equal(t, 10, st.Params.Int("max"))

	defaults := reg.Defaults()
	require.Equal(t, defaults.Fingerprint(), reg.Defaults().Fingerprint())
	defaults["a"] = Setting{Enabled: false, Severity: diag.SevError}
	require.NotEqual(t, defaults.Fingerprint(), reg.Defaults().Fingerprint())
	require.Equal(t, 10, defaults.For(rl).Params.Int("max"))
}

func TestParamCoerce(t *testing.T) {
	maxParam := Param{Name: "max", Kind: ParamInt, Min: 1}
	tests := []struct {
		name    string
		param   Param
		in      any
		want    any
		wantErr error
	}{
		{"yaml int", maxParam, 100, 100, nil},
		{"toml int64", maxParam, int64(80), 80, nil},
		{"json float", maxParam, float64(90), 90, nil},
		{"fractional", maxParam, 1.5, nil, ErrParamType},
		{"string for int", maxParam, "100", nil, ErrParamType},
		{"below minimum", maxParam, 0, nil, ErrParamRange},
		{"bool", Param{Name: "b", Kind: ParamBool}, true, true, nil},
		{"list of any", Param{Name: "l", Kind: ParamList}, []any{"x", "y"}, []string{"x", "y"}, nil},
		{"list with int", Param{Name: "l", Kind: ParamList}, []any{"x", 1}, nil, ErrParamType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.param.Coerce(tt.in)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
