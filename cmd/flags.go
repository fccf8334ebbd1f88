package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlag ties a flag to a viper key. Lookup returns nil only for a typo in
// the flag name, which should fail loudly at startup.
func bindFlag(f *pflag.Flag, key string) {
	if f == nil {
		panic("bindFlag: unknown flag for key " + key)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}
