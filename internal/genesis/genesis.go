// Package genesis builds genesis documents for custom networks.
//
// The cluster specification stores a genesis *template*: initial stakers are
// filled in later, once anchor nodes exist and their protocol node IDs are
// known. Allocations and the locked initial stake are complete at derivation
// time.
package genesis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quorumlabs/nodeops/internal/errdefs"
	"github.com/quorumlabs/nodeops/internal/keys"
)

const (
	// unitDenomination is the base unit multiplier (1 coin = 10^9 base units).
	unitDenomination uint64 = 1_000_000_000

	// DefaultInitialAmount is the unlocked balance granted to every seed key.
	DefaultInitialAmount = 300_000_000 * unitDenomination

	// DefaultLockedAmount is the stake-locked balance granted to key 0.
	DefaultLockedAmount = 200_000_000 * unitDenomination

	// DefaultInitialStakeDuration locks the initial stake for one year.
	DefaultInitialStakeDuration uint64 = 31_536_000

	// DefaultStakeLockDuration delays unlock of the locked allocation.
	DefaultStakeLockDuration uint64 = 2_592_000 // 30 days
)

// Genesis is the custom-network genesis template.
type Genesis struct {
	NetworkID uint32 `yaml:"network_id" json:"networkID"`

	Allocations []Allocation `yaml:"allocations" json:"allocations"`

	StartTime            uint64 `yaml:"start_time" json:"startTime"`
	InitialStakeDuration uint64 `yaml:"initial_stake_duration" json:"initialStakeDuration"`

	// InitialStakedFunds lists the short addresses whose balance backs the
	// initial stake.
	InitialStakedFunds []string `yaml:"initial_staked_funds" json:"initialStakedFunds"`

	// InitialStakers is filled once anchor nodes report their protocol node
	// IDs; empty in the template.
	InitialStakers []Staker `yaml:"initial_stakers,omitempty" json:"initialStakers,omitempty"`

	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Allocation pre-funds one address in genesis.
type Allocation struct {
	ETHAddress     string         `yaml:"eth_address" json:"ethAddr"`
	ShortAddress   string         `yaml:"short_address" json:"addr"`
	InitialAmount  uint64         `yaml:"initial_amount" json:"initialAmount"`
	UnlockSchedule []LockedAmount `yaml:"unlock_schedule" json:"unlockSchedule"`
}

// LockedAmount is a balance that unlocks at a given time.
type LockedAmount struct {
	Amount   uint64 `yaml:"amount" json:"amount"`
	Locktime uint64 `yaml:"locktime,omitempty" json:"locktime,omitempty"`
}

// Staker is one initial validator; NodeID is issued by the node's consensus
// layer during bootstrap.
type Staker struct {
	NodeID        string `yaml:"node_id" json:"nodeID"`
	RewardAddress string `yaml:"reward_address" json:"rewardAddress"`
	DelegationFee uint32 `yaml:"delegation_fee" json:"delegationFee"`
}

// New builds a genesis template for a custom network, generating
// keysToGenerate seed keys. Key 0 backs the locked initial stake; the
// remainder are unlocked and pre-funded. Returns the template and every
// generated key.
func New(networkID uint32, keysToGenerate int) (*Genesis, []*keys.Key, error) {
	if keysToGenerate <= 0 {
		return nil, nil, errdefs.InvalidInputf("keys_to_generate must be positive (got %d)", keysToGenerate)
	}

	seedKeys, err := keys.GenerateN(keysToGenerate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate seed keys: %w", err)
	}

	now := uint64(time.Now().UTC().Unix())
	g := &Genesis{
		NetworkID:            networkID,
		StartTime:            now,
		InitialStakeDuration: DefaultInitialStakeDuration,
	}

	for i, k := range seedKeys {
		alloc := Allocation{
			ETHAddress:    k.EthAddress(),
			ShortAddress:  k.ShortAddress(),
			InitialAmount: DefaultInitialAmount,
			UnlockSchedule: []LockedAmount{
				{Amount: DefaultLockedAmount, Locktime: now + DefaultStakeLockDuration},
			},
		}
		if i == 0 {
			g.InitialStakedFunds = append(g.InitialStakedFunds, k.ShortAddress())
		}
		g.Allocations = append(g.Allocations, alloc)
	}

	return g, seedKeys, nil
}

// EncodeJSON renders the genesis in the wire format the node daemon loads.
func (g *Genesis) EncodeJSON() ([]byte, error) {
	out, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize genesis: %w", err)
	}
	return out, nil
}
