package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	Server  string
	Token   string
	User    string
	Output  string
	Verbose bool
}

// AddGlobalFlags adds the persistent flags to the root command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.Server, "server", "", "compass-api base URL (default http://localhost:8080)")
	pf.StringVar(&flags.Token, "token", "", "bearer token identifying you to the server")
	pf.StringVar(&flags.User, "user", "", "user id sent as X-User-ID (servers in local mode only)")
	pf.StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json|yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
}

// BindGlobalFlags binds the connection flags onto the client.* config keys,
// so a flag beats COMPASS_CLIENT_* which beats compass.yaml.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	rootFlags := cmd.Root().PersistentFlags()

	if err := v.BindPFlag("client.server", rootFlags.Lookup("server")); err != nil {
		return err
	}
	if err := v.BindPFlag("client.token", rootFlags.Lookup("token")); err != nil {
		return err
	}
	return nil
}

func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON, OutputYAML}
}

func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}
