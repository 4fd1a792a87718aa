package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var stateGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read a value from the project state store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		val, err := state.Get(args[0])
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(val); err != nil {
				fatal(err)
			}
			return
		}
		fmt.Println(val)
	},
}

var stateSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a value to the project state store",
	Long:  `value is parsed as JSON when possible, otherwise stored as a string.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		actor := actorFlag(cmd)
		var val any
		if err := json.Unmarshal([]byte(args[1]), &val); err != nil {
			val = args[1]
		}
		if err := state.Set(args[0], val, &actor); err != nil {
			fatal(err)
		}
		fmt.Printf("%s = %v\n", args[0], val)
	},
}

var stateIncrCmd = &cobra.Command{
	Use:   "incr <key> [amount]",
	Short: "Atomically increment an integer key, defaulting the amount to 1",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		amount := int64(1)
		if len(args) == 2 {
			var parsed int64
			if _, err := fmt.Sscanf(args[1], "%d", &parsed); err != nil {
				fatal(fmt.Errorf("invalid amount %q: %w", args[1], err))
			}
			amount = parsed
		}
		actor := actorFlag(cmd)
		next, err := state.AtomicIncrement(args[0], amount, &actor)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s = %d\n", args[0], next)
	},
}

var stateKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every key in the project state store",
	Run: func(cmd *cobra.Command, args []string) {
		keys, err := state.Keys()
		if err != nil {
			fatal(err)
		}
		if jsonOutput {
			if err := outputJSON(keys); err != nil {
				fatal(err)
			}
			return
		}
		for _, k := range keys {
			fmt.Println(k)
		}
	},
}

var stateDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a key from the project state store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		existed, err := state.Delete(args[0])
		if err != nil {
			fatal(err)
		}
		if !existed {
			fmt.Printf("%s did not exist\n", args[0])
			return
		}
		fmt.Printf("deleted %s\n", args[0])
	},
}

func init() {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Read and write the project-scoped key/value state store",
	}
	stateCmd.AddCommand(stateGetCmd, stateSetCmd, stateIncrCmd, stateKeysCmd, stateDeleteCmd)
	rootCmd.AddCommand(stateCmd)
}
