package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

const (
	cypherPageSize = 50
	cypherMaxPages = 10
)

// Chain reads the watched address from public explorers.
type Chain struct {
	BlockchainInfo string
	BlockCypher    string
	Blockchair     string
	Client         *http.Client

	pacer *rate.Limiter
}

// NewChain returns a Chain that pages BlockCypher at most every 400ms.
func NewChain(blockchainInfo, blockCypher, blockchair string, client *http.Client) *Chain {
	return &Chain{
		BlockchainInfo: blockchainInfo,
		BlockCypher:    blockCypher,
		Blockchair:     blockchair,
		Client:         client,
		pacer:          rate.NewLimiter(rate.Every(400*time.Millisecond), 1),
	}
}

// Balance returns the confirmed balance in satoshis. Blockchair is asked when
// blockchain.info fails.
func (c *Chain) Balance(ctx context.Context, addr string) (int64, error) {
	body, err := getBody(ctx, c.Client, "blockchain.info", c.BlockchainInfo+"/q/addressbalance/"+url.PathEscape(addr), nil)
	if err == nil {
		sats, perr := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
		if perr == nil {
			return sats, nil
		}
		err = fmt.Errorf("blockchain.info balance %q: %w", body, perr)
	}
	if c.Blockchair == "" {
		return 0, err
	}
	sats, ferr := c.blockchairBalance(ctx, addr)
	if ferr != nil {
		return 0, fmt.Errorf("%v; fallback: %w", err, ferr)
	}
	return sats, nil
}

type blockchairResponse struct {
	Data map[string]struct {
		Address struct {
			Balance int64 `json:"balance"`
		} `json:"address"`
	} `json:"data"`
}

func (c *Chain) blockchairBalance(ctx context.Context, addr string) (int64, error) {
	var resp blockchairResponse
	if err := getJSON(ctx, c.Client, "blockchair", c.Blockchair+"/bitcoin/dashboards/address/"+url.PathEscape(addr), nil, &resp); err != nil {
		return 0, err
	}
	d, ok := resp.Data[addr]
	if !ok {
		return 0, fmt.Errorf("blockchair %s: %w", addr, ErrNoData)
	}
	return d.Address.Balance, nil
}

type rawAddr struct {
	Txs []struct {
		Time   int64 `json:"time"`
		Result int64 `json:"result"`
	} `json:"txs"`
}

// Transactions returns the per-transaction net effect on addr.
func (c *Chain) Transactions(ctx context.Context, addr string) ([]model.ChainTx, error) {
	var raw rawAddr
	if err := getJSON(ctx, c.Client, "blockchain.info", c.BlockchainInfo+"/rawaddr/"+url.PathEscape(addr), nil, &raw); err != nil {
		return nil, err
	}
	if len(raw.Txs) == 0 {
		return nil, fmt.Errorf("blockchain.info rawaddr %s: %w", addr, ErrNoData)
	}
	txs := make([]model.ChainTx, len(raw.Txs))
	for i, t := range raw.Txs {
		txs[i] = model.ChainTx{Time: time.Unix(t.Time, 0).UTC(), Result: t.Result}
	}
	return txs, nil
}

type cypherPage struct {
	Txs []struct {
		Confirmed string `json:"confirmed"`
		Received  string `json:"received"`
	} `json:"txs"`
	HasMore bool `json:"hasMore"`
}

// ActivityDays returns the UTC dates on which addr transacted, read from up
// to ten BlockCypher pages.
func (c *Chain) ActivityDays(ctx context.Context, addr string) ([]string, error) {
	var days []string
	for page := 0; page < cypherMaxPages; page++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return days, err
		}
		q := url.Values{}
		q.Set("txlimit", strconv.Itoa(cypherPageSize))
		q.Set("txstart", strconv.Itoa(page*cypherPageSize))
		u := fmt.Sprintf("%s/v1/btc/main/addrs/%s/full?%s", c.BlockCypher, url.PathEscape(addr), q.Encode())

		var p cypherPage
		if err := getJSON(ctx, c.Client, "blockcypher", u, nil, &p); err != nil {
			if len(days) > 0 {
				break
			}
			return nil, err
		}
		for _, tx := range p.Txs {
			ts := tx.Confirmed
			if ts == "" {
				ts = tx.Received
			}
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				continue
			}
			days = append(days, t.UTC().Format("2006-01-02"))
		}
		if !p.HasMore || len(p.Txs) < cypherPageSize {
			break
		}
	}
	return days, nil
}

// Address returns the balance and daily balance series of addr. The series
// is replayed from rawaddr and falls back to a flat series over the
// BlockCypher activity days.
func (c *Chain) Address(ctx context.Context, addr string) (model.AddressBalance, error) {
	out := model.AddressBalance{Address: addr}
	sats, err := c.Balance(ctx, addr)
	if err != nil {
		return out, err
	}
	out.BTC = calculator.SatsToBTC(sats)

	if txs, err := c.Transactions(ctx, addr); err == nil {
		out.Series = calculator.DailyBalances(txs)
		return out, nil
	}
	days, err := c.ActivityDays(ctx, addr)
	if err != nil {
		return out, fmt.Errorf("address series: %w", err)
	}
	out.Series = calculator.FlatSeries(days, out.BTC)
	return out, nil
}
