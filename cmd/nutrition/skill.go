// ABOUTME: Install Claude Code skill for nutrition
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the nutrition skill for Claude Code.

This copies the skill definition to ~/.claude/skills/nutrition/
so Claude Code can log meals and water contextually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(filepath.Join(home, ".claude", "skills", "nutrition"))
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func installSkill(skillDir string) error {
	skillPath := filepath.Join(skillDir, "SKILL.md")

	fmt.Println("This will install the nutrition skill, enabling Claude Code to:")
	fmt.Println()
	fmt.Println("  • Log meals and water as you mention them")
	fmt.Println("  • Check progress against your daily goals")
	fmt.Println("  • Summarise your last few weeks")
	fmt.Println()
	fmt.Println("Destination:")
	fmt.Printf("  %s\n", skillPath)
	fmt.Println()

	if _, err := os.Stat(skillPath); err == nil {
		fmt.Println("Note: A skill file already exists and will be overwritten.")
		fmt.Println()
	}

	if !skillSkipConfirm {
		fmt.Print("Install the nutrition skill? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Installation canceled.")
			return nil
		}
		fmt.Println()
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Println("✓ Installed nutrition skill successfully!")
	return nil
}
