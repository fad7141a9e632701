/*
main.go

aiopsgen generates synthetic AI-Ops insight records from JSON templates
and posts them to the platform insights API.
*/
package main

import (
	"github.com/aiops-tools/aiopsgen/cmd"
	"github.com/aiops-tools/aiopsgen/pkg/logger"
	"github.com/aiops-tools/aiopsgen/pkg/telemetry"
)

func main() {
	logger.InitializeWithFallback()

	if err := telemetry.Init("aiopsgen"); err != nil {
		logger.L().Warn("Telemetry disabled: " + err.Error())
	}

	cmd.Execute()
}
