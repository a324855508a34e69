package envstruct_test

import (
	"crossexam/internal/envstruct"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestPopulate(t *testing.T) {
	tests := []struct {
		name      string
		v         any
		lookupEnv func(string) (string, bool)
		want      any
		wantErr   error
	}{
		{
			name:      "nil",
			v:         nil,
			lookupEnv: func(_ string) (string, bool) { return "", false },
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "not pointer",
			v:         struct{}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name: "missing env without default",
			v: &struct {
				Addr string `env:"CROSSEXAM_ADDR"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			wantErr:   envstruct.ErrEnvNotSet,
		},
		{
			name: "env is set",
			v: &struct {
				Addr string `env:"CROSSEXAM_ADDR"`
			}{},
			lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			want:      &struct{ Addr string }{Addr: "crossexam_addr"},
		},
		{
			name: "default value kicks in",
			v: &struct {
				Model string `env:"CROSSEXAM_AI_MODEL" envDefault:"gpt-4o-mini"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      &struct{ Model string }{Model: "gpt-4o-mini"},
		},
		{
			name: "only accepts strings",
			v: &struct {
				Port int `env:"CROSSEXAM_PPROF_PORT"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "6060", true },
			wantErr:   envstruct.ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.v, tt.lookupEnv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.EqualValues(t, tt.want, tt.v)
			}
		})
	}
}
