package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyrizqi/IoT-Gas-Monitoring-System/pkg/monitor"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports available on this host.",
	RunE: func(_ *cobra.Command, _ []string) error {
		ports, err := monitor.Ports()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("no serial ports found")
			return nil
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
