package commands

import (
	"github.com/spf13/cobra"

	"github.com/quorumlabs/nodeops/cmd/nodeops/handlers"
	"github.com/quorumlabs/nodeops/internal/spec"
)

// DefaultSpec returns the command that derives a specification from options
// and writes it to disk.
//
// The written document is the input to every other command: edit it, run
// `nodeops check`, then `nodeops apply`.
func DefaultSpec() *cobra.Command {
	var (
		specPath       string
		region         string
		networkName    string
		keysToGenerate int
		anchorNodes    uint32
		nonAnchorNodes uint32
		instanceTypes  []string
		agentBin       string
		nodeBin        string
		pluginsDir     string
		httpTLS        bool
		evmSubnet      bool
	)

	cmd := &cobra.Command{
		Use:   "default-spec",
		Short: "Derive a cluster specification and write it to disk",
		Example: `  # Custom dev network with two anchors
  nodeops default-spec --spec-file-path dev-cluster.yaml --region us-west-2 --network-name dev \
    --agent-bin ./bin/nodeops-agent --node-bin ./bin/node

  # Testnet cluster with an EVM subnet genesis
  nodeops default-spec --spec-file-path testnet.yaml --region us-east-1 --network-name testnet --evm-subnet`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := spec.DeriveOptions{
				SpecFilePath:   specPath,
				Region:         region,
				NetworkName:    networkName,
				KeysToGenerate: keysToGenerate,
				NonAnchorNodes: nonAnchorNodes,
				InstanceTypes:  instanceTypes,
				AgentBin:       agentBin,
				NodeBin:        nodeBin,
				PluginsDir:     pluginsDir,
				HTTPTLS:        httpTLS,
				EVMSubnet:      evmSubnet,
			}
			if cmd.Flags().Changed("anchor-nodes") {
				opts.AnchorNodes = &anchorNodes
			}
			return handlers.DefaultSpec(opts, specPath)
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec-file-path", "s", "nodeops.yaml", "Where to write the derived specification")
	cmd.Flags().StringVar(&region, "region", "us-west-2", "AWS region")
	cmd.Flags().StringVar(&networkName, "network-name", "", "Network name (mainnet, testnet, or custom)")
	cmd.Flags().IntVar(&keysToGenerate, "keys-to-generate", spec.DefaultKeysToGenerate, "Number of seed keys to generate")
	cmd.Flags().Uint32Var(&anchorNodes, "anchor-nodes", spec.DefaultAnchorNodes, "Anchor node count (custom networks only)")
	cmd.Flags().Uint32Var(&nonAnchorNodes, "non-anchor-nodes", spec.DefaultNonAnchorNodes, "Non-anchor node count")
	cmd.Flags().StringSliceVar(&instanceTypes, "instance-types", nil, "EC2 instance types for the node pools")
	cmd.Flags().StringVar(&agentBin, "agent-bin", "", "Path to the locally built agent binary")
	cmd.Flags().StringVar(&nodeBin, "node-bin", "", "Path to the locally built node binary")
	cmd.Flags().StringVar(&pluginsDir, "plugins-dir", "", "Path to the plugin directory")
	cmd.Flags().BoolVar(&httpTLS, "http-tls", false, "Serve node HTTP over TLS")
	cmd.Flags().BoolVar(&evmSubnet, "evm-subnet", false, "Include an EVM subnet genesis")

	return cmd
}
