package main

// appendixctl is a small cobra CLI around the transaction appendix codec: it
// builds, encodes, decodes and fee-rates one appendix at a time, loading the
// node's chain-wide constants through the shared config package rather than
// hard-coding them.

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	core "synnergy-network/core"
	pkgconfig "synnergy-network/pkg/config"
)

var log = logrus.New()

func main() {
	root := &cobra.Command{Use: "appendixctl"}
	root.PersistentFlags().String("config-env", "", "config environment overlay to merge (SYNN_ENV)")
	root.AddCommand(plainMessageCmd())
	root.AddCommand(feeCmd())
	root.AddCommand(decodeCmd())
	if err := root.Execute(); err != nil {
		log.WithError(err).Error("appendixctl failed")
		os.Exit(1)
	}
}

func loadChainConfig(cmd *cobra.Command) core.ChainConfig {
	env, _ := cmd.Flags().GetString("config-env")
	if env == "" {
		env = os.Getenv("SYNN_ENV")
	}
	cfg, err := pkgconfig.Load(env)
	if err != nil {
		log.WithError(err).Warn("falling back to default chain config")
		return core.DefaultChainConfig()
	}
	return core.ChainConfigFromAppConfig(*cfg)
}

func plainMessageCmd() *cobra.Command {
	var message string
	var isText bool
	var version uint8
	cmd := &cobra.Command{
		Use:   "plain-message",
		Short: "encode a PlainMessage appendix and print its wire hex and fee",
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			if isText {
				raw = []byte(message)
			} else {
				decoded, err := hex.DecodeString(message)
				if err != nil {
					return fmt.Errorf("decoding --message as hex: %w", err)
				}
				raw = decoded
			}
			appendix, err := core.NewPlainMessage(version, raw, isText)
			if err != nil {
				return err
			}
			buf := core.NewWriteBuffer(appendix.Size())
			if err := appendix.WriteBinary(buf); err != nil {
				return err
			}
			chain := loadChainConfig(cmd)
			fee, err := core.ComputeFee(appendix, staticTxContext{height: 0}, chain, 0)
			if err != nil {
				return err
			}
			fmt.Printf("hex: %s\n", hex.EncodeToString(buf.Bytes()))
			fmt.Printf("size: %d\n", appendix.Size())
			fmt.Printf("fee: %d\n", fee)
			return nil
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "message body (raw text, or hex if --is-text=false)")
	cmd.Flags().BoolVar(&isText, "is-text", true, "treat message as UTF-8 text")
	cmd.Flags().Uint8Var(&version, "version", 1, "appendix wire version")
	return cmd
}

func feeCmd() *cobra.Command {
	var effectiveSize int64
	var height int32
	cmd := &cobra.Command{
		Use:   "fee",
		Short: "evaluate the PlainMessage fee schedule against an arbitrary size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadChainConfig(cmd)
			schedule := core.SizeBasedFee(0, cfg.OneSPA, 32)
			amount, err := schedule.Evaluate(effectiveSize)
			if err != nil {
				return err
			}
			fmt.Printf("fee at height %d for %d bytes: %d\n", height, effectiveSize, amount)
			return nil
		},
	}
	cmd.Flags().Int64Var(&effectiveSize, "size", 0, "effective size in bytes")
	cmd.Flags().Int32Var(&height, "height", 0, "chain height (echoed in the output only; it does not select a schedule)")
	return cmd
}

func decodeCmd() *cobra.Command {
	var hexBody string
	var kind string
	var txVersion int
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "decode a hex-encoded appendix body and print its JSON form",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(hexBody)
			if err != nil {
				return fmt.Errorf("decoding --hex: %w", err)
			}
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			buf := core.NewReadBuffer(raw)
			appendix, err := core.ParseAppendixBinary(buf, k, txVersion)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(appendix.ToJSON(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&hexBody, "hex", "", "hex-encoded appendix body")
	cmd.Flags().StringVar(&kind, "kind", "plain-message", "appendix kind: plain-message|public-key-announcement|encrypted-message|encrypt-to-self-message|prunable-encrypted-message")
	cmd.Flags().IntVar(&txVersion, "tx-version", 1, "enclosing transaction wire version")
	return cmd
}

func parseKind(s string) (core.Kind, error) {
	switch s {
	case "plain-message":
		return core.KindPlainMessage, nil
	case "public-key-announcement":
		return core.KindPublicKeyAnnouncement, nil
	case "encrypted-message":
		return core.KindEncryptedMessage, nil
	case "encrypt-to-self-message":
		return core.KindEncryptToSelfMessage, nil
	case "prunable-encrypted-message":
		return core.KindPrunableEncryptedMessage, nil
	default:
		return 0, fmt.Errorf("unknown --kind %q", s)
	}
}

// staticTxContext is a fixed TxContext for CLI use, where there is no real
// enclosing transaction to ask.
type staticTxContext struct {
	height int32
}

func (staticTxContext) Version() int        { return 1 }
func (staticTxContext) ID() int64           { return 0 }
func (staticTxContext) RecipientID() int64  { return 0 }
func (staticTxContext) Timestamp() int32    { return 0 }
func (s staticTxContext) Height() int32     { return s.height }
