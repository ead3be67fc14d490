package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyscout/insiderscan/internal/marketsource"
)

func TestAggregatorSeedsNewWallet(t *testing.T) {
	agg := NewAggregator()
	m := marketsource.Market{ConditionID: "0xabc", Question: "Will it happen?", Slug: "will-it-happen"}

	agg.Add(m, Entry{
		Wallet:           "0x1",
		Name:             "whale",
		Side:             SideYes,
		ValueUSD:         12000,
		Score:            80,
		TotalMarkets:     3,
		AccountAgeDays:   12,
		MarketEntryDays:  2,
		RealizedPnLUSD:   500,
		UnrealizedPnLUSD: -100,
	})

	accounts := agg.Accounts()
	require.Len(t, accounts, 1)
	acct := accounts[0]
	assert.Equal(t, "0x1", acct.Wallet)
	assert.Equal(t, 80, acct.MaxScore)
	assert.Equal(t, 12000.0, acct.TotalValueUSD)
	require.Len(t, acct.Markets, 1)
	assert.Equal(t, "0xabc", acct.Markets[0].ConditionID)
	assert.Equal(t, 2, acct.Markets[0].MarketEntryDays)
}

func TestAggregatorMaxScoreAndSumAreOrderIndependent(t *testing.T) {
	m1 := marketsource.Market{ConditionID: "0xa", Slug: "a"}
	m2 := marketsource.Market{ConditionID: "0xb", Slug: "b"}
	e1 := Entry{Wallet: "0x1", ValueUSD: 5000, Score: 60}
	e2 := Entry{Wallet: "0x1", ValueUSD: 7000, Score: 90}

	forward := NewAggregator()
	forward.Add(m1, e1)
	forward.Add(m2, e2)

	reverse := NewAggregator()
	reverse.Add(m2, e2)
	reverse.Add(m1, e1)

	fa := forward.Accounts()[0]
	ra := reverse.Accounts()[0]
	assert.Equal(t, 90, fa.MaxScore)
	assert.Equal(t, fa.MaxScore, ra.MaxScore)
	assert.Equal(t, 12000.0, fa.TotalValueUSD)
	assert.Equal(t, fa.TotalValueUSD, ra.TotalValueUSD)
}

func TestAggregatorPnLKeepsLatestEntry(t *testing.T) {
	m1 := marketsource.Market{ConditionID: "0xa"}
	m2 := marketsource.Market{ConditionID: "0xb"}

	agg := NewAggregator()
	agg.Add(m1, Entry{Wallet: "0x1", Score: 60, RealizedPnLUSD: 100, UnrealizedPnLUSD: 10})
	agg.Add(m2, Entry{Wallet: "0x1", Score: 55, RealizedPnLUSD: 900, UnrealizedPnLUSD: 90})

	acct := agg.Accounts()[0]
	assert.Equal(t, 900.0, acct.RealizedPnLUSD)
	assert.Equal(t, 90.0, acct.UnrealizedPnLUSD)
	assert.Equal(t, 60, acct.MaxScore)
}

func TestAggregatorCamouflageSticks(t *testing.T) {
	m1 := marketsource.Market{ConditionID: "0xa"}
	m2 := marketsource.Market{ConditionID: "0xb"}

	agg := NewAggregator()
	agg.Add(m1, Entry{Wallet: "0x1", Score: 60, IsCamouflage: true})
	agg.Add(m2, Entry{Wallet: "0x1", Score: 70, IsCamouflage: false})

	assert.True(t, agg.Accounts()[0].IsCamouflage)
}

func TestAggregatorKeepsWalletsSeparate(t *testing.T) {
	m := marketsource.Market{ConditionID: "0xa"}

	agg := NewAggregator()
	agg.Add(m, Entry{Wallet: "0x1", Score: 60, ValueUSD: 100})
	agg.Add(m, Entry{Wallet: "0x2", Score: 70, ValueUSD: 200})

	assert.Equal(t, 2, agg.Len())
}
