// Package cli provides engine binary location and command building for the
// query engine CLI.
//
// # Binary Location
//
// The Locator interface resolves the platform-specific engine binary:
//
//	locator := cli.NewLocator(&cli.Config{
//	    EnginePath: "",                // Optional explicit path
//	    InstallDir: "/opt/prisma/bin", // Defaults to the executable's directory
//	    Logger:     slog.Default(),
//	})
//	enginePath, err := locator.Locate(ctx)
//
// The file name follows the query-engine-<platform>[.exe] convention. No
// existence check is made; a missing binary surfaces when the process starts.
//
// # Command Building
//
//	args := cli.BuildArgs(cli.ModeGetConfig, stagedPath)
//	env := cli.BuildEnvironment(cli.ModeGetConfig, stagedPath, extraEnv)
package cli
