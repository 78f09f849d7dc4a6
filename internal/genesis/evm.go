package genesis

import (
	"strings"
)

// EVM subnet genesis. When an EVM-compatible subnet is requested, every
// generated seed address is pre-funded and granted deployer allow-list admin
// rights so test deployments work out of the box.

const (
	// DefaultEVMChainID identifies the subnet chain.
	DefaultEVMChainID uint64 = 77777

	// DefaultEVMGasLimit is the per-block gas limit (hex, as the chain
	// expects in genesis).
	DefaultEVMGasLimit = "0x7A1200"

	// DefaultEVMBalance pre-funds each seed allocation (hex wei).
	DefaultEVMBalance = "0x52B7D2DCC80CD2E4000000" // 100,000,000 ether
)

// EVMGenesis is the genesis document for an EVM-compatible subnet.
type EVMGenesis struct {
	Config *EVMChainConfig         `yaml:"config" json:"config"`
	Alloc  map[string]AllocAccount `yaml:"alloc" json:"alloc"`

	GasLimit   string `yaml:"gas_limit" json:"gasLimit"`
	Difficulty string `yaml:"difficulty" json:"difficulty"`
	Timestamp  string `yaml:"timestamp" json:"timestamp"`
}

// EVMChainConfig is the chain-rule section of an EVM subnet genesis.
type EVMChainConfig struct {
	ChainID uint64 `yaml:"chain_id" json:"chainId"`

	ContractDeployerAllowList *AllowListConfig `yaml:"contract_deployer_allow_list,omitempty" json:"contractDeployerAllowListConfig,omitempty"`
}

// AllowListConfig restricts contract deployment to the listed admins.
type AllowListConfig struct {
	BlockTimestamp  uint64   `yaml:"block_timestamp" json:"blockTimestamp"`
	AllowListAdmins []string `yaml:"allow_list_admins,omitempty" json:"adminAddresses,omitempty"`
}

// AllocAccount pre-funds one EVM account.
type AllocAccount struct {
	Balance string `yaml:"balance" json:"balance"`
}

// NewEVM builds an EVM subnet genesis seeded with every given allocation
// address, each granted deployer allow-list admin rights.
func NewEVM(ethAddresses []string) *EVMGenesis {
	alloc := make(map[string]AllocAccount, len(ethAddresses))
	admins := make([]string, 0, len(ethAddresses))
	for _, addr := range ethAddresses {
		alloc[stripHexPrefix(addr)] = AllocAccount{Balance: DefaultEVMBalance}
		admins = append(admins, addr)
	}

	return &EVMGenesis{
		Config: &EVMChainConfig{
			ChainID: DefaultEVMChainID,
			ContractDeployerAllowList: &AllowListConfig{
				AllowListAdmins: admins,
			},
		},
		Alloc:      alloc,
		GasLimit:   DefaultEVMGasLimit,
		Difficulty: "0x0",
		Timestamp:  "0x0",
	}
}

// stripHexPrefix drops a leading 0x; alloc table keys are bare hex.
func stripHexPrefix(s string) string {
	return strings.TrimPrefix(s, "0x")
}
