package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"photon-trading-bot/config"
	"photon-trading-bot/internal/ai/llm"
	"photon-trading-bot/internal/cache"
	"photon-trading-bot/internal/database"
	"photon-trading-bot/internal/decision"
	"photon-trading-bot/internal/events"
	"photon-trading-bot/internal/logging"
	"photon-trading-bot/internal/order"
	"photon-trading-bot/internal/photon"
	"photon-trading-bot/internal/recorder"
	"photon-trading-bot/internal/scoring"
	"photon-trading-bot/internal/screener"
	"photon-trading-bot/internal/settings"
)

// ScoredCoin pairs a normalized coin with its health evaluation.
type ScoredCoin struct {
	Coin   screener.Coin       `json:"coin"`
	Health scoring.ScoreResult `json:"health"`
}

// DecideOutcome is the full result of one decision cycle for a coin.
type DecideOutcome struct {
	Decision decision.Decision `json:"decision"`
	Thought  recorder.Thought  `json:"thought"`
	Proposal recorder.Proposal `json:"proposal"`
}

// TradingBot runs the discovery loop and the per-coin decision pipeline.
type TradingBot struct {
	client   photon.PhotonClient
	settings *cache.SettingsService
	pool     *llm.Pool
	rec      *recorder.Recorder
	executor *order.Executor
	ledger   *order.Ledger
	bus      *events.EventBus
	sink     recorder.EventSink
	cfg      config.BotConfig
	log      *logging.Logger

	mu       sync.RWMutex
	lastScan []ScoredCoin
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewTradingBot(
	cfg config.BotConfig,
	client photon.PhotonClient,
	settingsSvc *cache.SettingsService,
	pool *llm.Pool,
	rec *recorder.Recorder,
	executor *order.Executor,
	ledger *order.Ledger,
	bus *events.EventBus,
	sink recorder.EventSink,
) *TradingBot {
	return &TradingBot{
		client:   client,
		settings: settingsSvc,
		pool:     pool,
		rec:      rec,
		executor: executor,
		ledger:   ledger,
		bus:      bus,
		sink:     sink,
		cfg:      cfg,
		log:      logging.WithComponent("bot"),
		stopChan: make(chan struct{}),
	}
}

// Start launches the tick loop.
func (b *TradingBot) Start() {
	interval := time.Duration(b.cfg.TickIntervalS) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	b.log.Info("bot started", "tick_interval", interval.String())
	if b.bus != nil {
		b.bus.Publish(events.Event{Type: events.EventBotStarted, Data: map[string]interface{}{}})
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				if err := b.tick(ctx); err != nil {
					b.log.Error("tick failed", "error", err)
				}
				cancel()
			case <-b.stopChan:
				return
			}
		}
	}()
}

// Stop halts the tick loop and waits for it to drain.
func (b *TradingBot) Stop() {
	close(b.stopChan)
	b.wg.Wait()
	if b.bus != nil {
		b.bus.Publish(events.Event{Type: events.EventBotStopped, Data: map[string]interface{}{}})
	}
	b.log.Info("bot stopped")
}

// tick runs one discovery pass and decides the top candidates.
func (b *TradingBot) tick(ctx context.Context) error {
	started := time.Now()

	s, err := b.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	scanned, err := b.Discover(ctx, s)
	if err != nil {
		return err
	}

	eligible := 0
	candidates := make([]ScoredCoin, 0)
	for _, sc := range scanned {
		if sc.Health.Eligible {
			eligible++
		}
		if sc.Health.Tier == scoring.TierTradeCandidate {
			candidates = append(candidates, sc)
		}
	}

	if b.bus != nil {
		b.bus.PublishScreenerUpdate(len(scanned), eligible, len(candidates))
	}

	maxDecides := b.cfg.MaxDecidesPerTick
	if maxDecides <= 0 {
		maxDecides = 3
	}
	decided := 0
	for _, sc := range candidates {
		if decided >= maxDecides {
			break
		}
		outcome, err := b.DecideCoin(ctx, s, sc.Coin)
		if err != nil {
			b.log.Error("decide failed", "symbol", sc.Coin.Symbol, "error", err)
			continue
		}
		decided++
		b.maybeExecute(ctx, s, sc.Coin, outcome)
	}

	if b.sink != nil {
		b.sink.LogEvent(ctx, database.EventKindCronTick, map[string]interface{}{
			"scanned":     len(scanned),
			"eligible":    eligible,
			"candidates":  len(candidates),
			"decided":     decided,
			"duration_ms": time.Since(started).Milliseconds(),
		})
	}
	return nil
}

// Discover fetches the feed, normalizes every row of the configured column,
// evaluates health and returns the results sorted by score descending,
// capped at the discovery item limit. The scan snapshot is retained for
// the API.
func (b *TradingBot) Discover(ctx context.Context, s *settings.Settings) ([]ScoredCoin, error) {
	resp, err := b.client.GetMemescope(ctx)
	if err != nil {
		b.reportAPIError(ctx, "memescope", err)
		return nil, fmt.Errorf("fetch memescope: %w", err)
	}

	column, ok := resp.Columns[s.Discovery.ColumnKey]
	if !ok {
		b.log.Warn("memescope column missing from feed", "column", s.Discovery.ColumnKey)
	}

	now := time.Now().Unix()
	scanned := make([]ScoredCoin, 0, len(column.Data))
	for _, item := range column.Data {
		coin := screener.Normalize(item)
		scanned = append(scanned, ScoredCoin{
			Coin:   coin,
			Health: scoring.Evaluate(s, coin, now),
		})
	}

	sort.SliceStable(scanned, func(i, j int) bool {
		return scanned[i].Health.Score > scanned[j].Health.Score
	})
	if max := s.Discovery.MaxItems; max > 0 && len(scanned) > max {
		scanned = scanned[:max]
	}

	b.mu.Lock()
	b.lastScan = scanned
	b.mu.Unlock()

	return scanned, nil
}

// LastScan returns the most recent discovery snapshot.
func (b *TradingBot) LastScan() []ScoredCoin {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]ScoredCoin, len(b.lastScan))
	copy(out, b.lastScan)
	return out
}

// DecideCoin runs the full pipeline for one coin: health evaluation,
// candle-backed signals for eligible coins, the rule decision, the optional
// advisory pass and record emission. Advisory failures degrade to the rule
// decision rather than failing the call.
func (b *TradingBot) DecideCoin(ctx context.Context, s *settings.Settings, coin screener.Coin) (*DecideOutcome, error) {
	now := time.Now().Unix()
	score := scoring.Evaluate(s, coin, now)

	// Ineligible coins never cost a candle fetch.
	var candles []photon.Candle
	if score.Eligible {
		candles = b.fetchCandles(ctx, s, coin, now)
	}

	d := decision.Decide(s, coin, score, candles, now)

	if adv := b.routeAdvisory(ctx, s, coin, d); adv != nil {
		decision.ApplyAdvisory(&d, adv)
	}

	thought, proposal := b.rec.Emit(ctx, s, d)

	if b.bus != nil {
		b.bus.PublishThought(thought.ThoughtID, coin.Symbol, string(d.Intent), string(d.Health.Tier), d.Health.Score)
	}

	return &DecideOutcome{Decision: d, Thought: thought, Proposal: proposal}, nil
}

// fetchCandles loads the RSI window for a coin. Failures are reported and
// degrade to a nil series.
func (b *TradingBot) fetchCandles(ctx context.Context, s *settings.Settings, coin screener.Coin, nowSec int64) []photon.Candle {
	poolID, err := strconv.ParseInt(coin.ID, 10, 64)
	if err != nil {
		b.log.Warn("non-numeric pool id, skipping candles", "id", coin.ID, "symbol", coin.Symbol)
		return nil
	}

	step := int64(s.RSI.IntervalSeconds())
	q := photon.CandleQuery{
		PoolID:   poolID,
		From:     nowSec - int64(s.RSI.BarsLookback)*step,
		To:       nowSec,
		Interval: s.RSI.Interval,
	}
	if coin.PumpPoolID != nil {
		q.PumpPoolID = *coin.PumpPoolID
	}

	candles, err := b.client.GetCandles(ctx, q)
	if err != nil {
		b.reportAPIError(ctx, "candles", err)
		return nil
	}
	return candles
}

// routeAdvisory asks the LLM pool for a second opinion. Returns nil when
// advisory is disabled, the pool is saturated, or the call fails.
func (b *TradingBot) routeAdvisory(ctx context.Context, s *settings.Settings, coin screener.Coin, d decision.Decision) *llm.Advisory {
	if b.pool == nil {
		return nil
	}

	pack := decision.BuildContextPack(s, coin, d.Health, d.Signals)
	adv, err := b.pool.Route(ctx, s, pack)
	if err != nil {
		b.log.Warn("advisory failed, using rule decision", "symbol", coin.Symbol, "error", err)
		if b.sink != nil {
			b.sink.LogEvent(ctx, database.EventKindLLMError, map[string]interface{}{
				"symbol": coin.Symbol,
				"error":  err.Error(),
			})
		}
		return nil
	}
	return adv
}

// maybeExecute places the proposed order when execution is armed.
func (b *TradingBot) maybeExecute(ctx context.Context, s *settings.Settings, coin screener.Coin, outcome *DecideOutcome) {
	if outcome == nil || !outcome.Proposal.CanExecute {
		return
	}
	intent := outcome.Decision.Intent
	if intent != decision.IntentBuy && intent != decision.IntentSell {
		return
	}

	poolID, _ := strconv.ParseInt(coin.ID, 10, 64)
	_, err := b.executor.Execute(ctx, s, order.ExecuteRequest{
		Action:       string(intent),
		Symbol:       coin.Symbol,
		TokenAddress: coin.TokenAddress,
		PoolID:       poolID,
		Mcap:         coin.Mcap,
	})
	if err != nil {
		b.log.Warn("auto-execute skipped", "symbol", coin.Symbol, "error", err)
	}
}

func (b *TradingBot) reportAPIError(ctx context.Context, source string, err error) {
	if b.bus != nil {
		b.bus.PublishError(source, "photon request failed", err)
	}
	if b.sink != nil {
		b.sink.LogEvent(ctx, database.EventKindAPIError, map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
	}
}
