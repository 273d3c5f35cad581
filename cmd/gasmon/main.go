package main

import "github.com/studyrizqi/IoT-Gas-Monitoring-System/cmd/gasmon/cmd"

func main() {
	cmd.Execute()
}
