package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/decker502/vnovel/pkg/app"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vnovel",
	Short: "vnovel plays a visual-novel story directory",
	Long: `vnovel loads resources.yaml, gui.yaml and story.yaml from a story directory
and plays the story script with backgrounds, characters and message boxes.

Click, tap, Space or Enter advances; hold Ctrl to skip; press A to toggle auto mode.
= and - change sound volume, ] and [ change music volume, . and , change text speed,
M and S toggle music and sound. Settings are saved on exit.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().String("dir", ".", "Directory containing the story files")
	rootCmd.Flags().String("story", app.DefaultStoryFile, "Story script, relative to --dir")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().Bool("skip", false, "Start in skip mode and stay there")
	rootCmd.Flags().Bool("auto", false, "Start in auto mode")
	rootCmd.Flags().Bool("fullscreen", false, "Start in fullscreen")
}

func run(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	story, _ := cmd.Flags().GetString("story")
	verbose, _ := cmd.Flags().GetBool("verbose")
	skip, _ := cmd.Flags().GetBool("skip")
	auto, _ := cmd.Flags().GetBool("auto")
	fullscreen, _ := cmd.Flags().GetBool("fullscreen")

	a, err := app.NewApp(app.Config{
		Verbose:    verbose,
		Dir:        dir,
		Story:      story,
		Skip:       skip,
		Auto:       auto,
		Fullscreen: fullscreen,
	})
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	w, h := a.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("vnovel - " + story)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(a.Fullscreen())

	runErr := ebiten.RunGame(a)
	if err := a.Close(); err != nil {
		log.Printf("[main] Warning: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return runErr
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
