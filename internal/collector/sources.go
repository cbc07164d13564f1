package collector

import (
	"MarketPulse/internal/config"
)

// Sources bundles every upstream fetcher used by the page collectors.
type Sources struct {
	CoinGecko *CoinGecko
	FearGreed *FearGreed
	Binance   *Binance
	OKX       *OKX
	Bybit     *Bybit
	Chain     *Chain
	FRED      *FRED
	Amberdata *Amberdata
}

// NewSources builds the fetchers from cfg. Relay-eligible requests go
// through cfg.Relay.BaseURL when it is set.
func NewSources(cfg *config.Config) *Sources {
	client := NewHTTPClient(cfg.Proxy, cfg.Sources.Timeout)
	router := Router{RelayBase: cfg.Relay.BaseURL}
	src := cfg.Sources
	return &Sources{
		CoinGecko: &CoinGecko{BaseURL: src.CoinGecko, Client: client},
		FearGreed: &FearGreed{BaseURL: src.FearGreed, Client: client},
		Binance:   NewBinance(src.Binance, client, router),
		OKX:       &OKX{BaseURL: src.OKX, Client: client, Router: router},
		Bybit:     NewBybit(src.Bybit, client),
		Chain:     NewChain(src.BlockchainInfo, src.BlockCypher, src.Blockchair, client),
		FRED:      &FRED{BaseURL: src.FRED, APIKey: src.FREDAPIKey, Client: client},
		Amberdata: &Amberdata{BaseURL: src.Amberdata, APIKey: src.AmberdataKey, Client: client},
	}
}
