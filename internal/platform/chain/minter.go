package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const badgeABI = `[{"name":"safeMint","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"uri","type":"string"},{"name":"questionHash","type":"string"}],"outputs":[]}]`

// Minter sends safeMint transactions to the badge contract and waits for
// them to be mined. One mint per call, no automatic retry; a failed mint is
// reported to the caller and nothing else.
type Minter struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	key      *ecdsa.PrivateKey
	chainID  *big.Int
}

// NewMinter dials the RPC endpoint and verifies it serves the configured
// chain. A mismatch is refused up front rather than discovered through a
// reverted transaction later.
func NewMinter(ctx context.Context, rpcURL, contractAddr, privateKeyHex string, chainID int64) (*Minter, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain.NewMinter dial: %w", err)
	}

	remoteID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain.NewMinter chain id: %w", err)
	}
	want := big.NewInt(chainID)
	if remoteID.Cmp(want) != 0 {
		client.Close()
		return nil, fmt.Errorf("chain.NewMinter: wrong network: RPC serves chain %s, configured chain %s", remoteID, want)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain.NewMinter private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(badgeABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain.NewMinter abi: %w", err)
	}
	contract := bind.NewBoundContract(common.HexToAddress(contractAddr), parsed, client, client, client)

	return &Minter{
		client:   client,
		contract: contract,
		key:      key,
		chainID:  want,
	}, nil
}

func (m *Minter) Close() {
	m.client.Close()
}

// Mint calls safeMint(to, uri, questionHash) and blocks until the
// transaction is mined. A reverted receipt is an error; the transaction hash
// is returned only on confirmed success.
func (m *Minter) Mint(ctx context.Context, to, uri, questionHash string) (string, error) {
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("chain.Mint: invalid recipient address %q", to)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(m.key, m.chainID)
	if err != nil {
		return "", fmt.Errorf("chain.Mint transactor: %w", err)
	}
	opts.Context = ctx

	tx, err := m.contract.Transact(opts, "safeMint", common.HexToAddress(to), uri, questionHash)
	if err != nil {
		return "", fmt.Errorf("chain.Mint safeMint: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, m.client, tx)
	if err != nil {
		return "", fmt.Errorf("chain.Mint wait mined: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("chain.Mint: transaction %s reverted", tx.Hash().Hex())
	}

	return tx.Hash().Hex(), nil
}
