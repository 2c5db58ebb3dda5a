package main

import (
	"albowatch-backend/cmd/albowatch/commands"
	"albowatch-backend/lib/osutil"
	"albowatch-backend/lib/telemetry"
)

func main() {
	ctx := osutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "albowatch")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
