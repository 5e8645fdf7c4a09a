// Package dialogue 依 session 狀態判斷每一輪輸入是追問還是新查詢，並更新 session
package dialogue

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/matcher"
	"dish-resolver/internal/core/recommend"
	"dish-resolver/internal/core/resolver"
	"dish-resolver/internal/core/session"
	"dish-resolver/internal/metrics"
	"dish-resolver/internal/pkg/common"

	"go.uber.org/zap"
)

// State 本輪輸入被判定的狀態
type State string

const (
	StateNumericChoice State = "numeric_choice"
	StateShowMore      State = "show_more"
	StateSubstring     State = "substring_follow_up"
	StateFreshQuery    State = "fresh_query"
)

// FailureCode 有界錯誤種類
type FailureCode string

const (
	// FailureNoList 沒有可選的清單（session 不存在、逾時或清單為空）
	FailureNoList FailureCode = "NO_LIST"
	// FailureOutOfRange 數字超出清單範圍，session 保留
	FailureOutOfRange FailureCode = "OUT_OF_RANGE"
	// FailureNothingToShow 沒有可展開的推薦
	FailureNothingToShow FailureCode = "NOTHING_TO_SHOW"
	// FailureRecordMissing 選到的菜名在目錄中找不到
	FailureRecordMissing FailureCode = "RECORD_MISSING"
)

// Failure 回給使用者的有界錯誤，不是程式錯誤
type Failure struct {
	Code FailureCode `json:"code"`
	// Max 清單長度，OutOfRange 時用於提示有效範圍 1..Max
	Max int `json:"max,omitempty"`
	// Name 找不到的菜名
	Name string `json:"name,omitempty"`
}

// Result 一輪對話的結構化結果，由呈現層轉成文字
type Result struct {
	State           State                      `json:"state"`
	Query           string                     `json:"query,omitempty"`
	Filter          catalog.Filter             `json:"filter"`
	Outcome         *resolver.Outcome          `json:"outcome,omitempty"`
	Records         []catalog.Recipe           `json:"records,omitempty"`
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`
	Failure         *Failure                   `json:"failure,omitempty"`
}

// Label 結果摘要，用於日誌與指標
func (r *Result) Label() string {
	switch {
	case r.Failure != nil:
		return strings.ToLower(string(r.Failure.Code))
	case r.Outcome != nil:
		return string(r.Outcome.Kind)
	case len(r.Records) > 0:
		return "records"
	}
	return "empty"
}

// showMorePhrases 展開推薦的說法
var showMorePhrases = map[string]bool{
	"show more": true,
	"showmore":  true,
	"more":      true,
}

// Engine 對話狀態機。目錄、比對與推薦皆為唯讀，session 儲存是唯一的共享可變狀態。
type Engine struct {
	catalog     *catalog.Catalog
	resolver    *resolver.Resolver
	recommender *recommend.Recommender
	sessions    session.Store
	extractor   EntityExtractor
	optionLimit int
	topN        int
}

// Option 引擎選項
type Option func(*Engine)

// WithExtractor 替換實體擷取器；nil 表示不擷取，直接以原始查詢搜尋
func WithExtractor(x EntityExtractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithOptionLimit 候選清單長度
func WithOptionLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.optionLimit = n
		}
	}
}

// WithRecommendations 每輪推薦數量
func WithRecommendations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// NewEngine 建立對話引擎
func NewEngine(cat *catalog.Catalog, sessions session.Store, opts ...Option) *Engine {
	m := matcher.New(cat)
	e := &Engine{
		catalog:     cat,
		resolver:    resolver.New(m),
		recommender: recommend.New(m),
		sessions:    sessions,
		extractor:   NewKeywordExtractor(),
		optionLimit: resolver.DefaultOptionLimit,
		topN:        recommend.DefaultTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog 引擎使用的目錄
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Recommend 不經 session 的推薦查詢
func (e *Engine) Recommend(seed string, filter catalog.Filter, topN int) []recommend.Recommendation {
	return e.recommender.Recommend(seed, filter, topN)
}

// Handle 處理使用者的一輪輸入。
// 依序判斷：數字選擇、展開推薦、對上一輪清單的部分名稱、新查詢。
func (e *Engine) Handle(ctx context.Context, userID, raw string) *Result {
	start := time.Now()
	text := strings.ToLower(strings.TrimSpace(raw))

	var res *Result
	switch {
	case isDigits(text):
		res = e.numericChoice(ctx, userID, text)
	case isShowMore(text):
		res = e.showMore(ctx, userID)
	default:
		res = e.followUpOrQuery(ctx, userID, text)
	}

	d := time.Since(start)
	common.LogTurn(userID, string(res.State), res.Label(), d)
	metrics.RecordTurn(string(res.State), res.Label(), d)
	return res
}

func (e *Engine) numericChoice(ctx context.Context, userID, text string) *Result {
	res := &Result{State: StateNumericChoice, Query: text}

	sess := e.loadSession(ctx, userID)
	if sess == nil {
		res.Failure = &Failure{Code: FailureNoList}
		return res
	}
	list := sess.Options
	if len(list) == 0 {
		list = sess.Recommendations
	}
	if len(list) == 0 {
		res.Failure = &Failure{Code: FailureNoList}
		return res
	}

	choice, err := strconv.Atoi(text)
	if err != nil || choice < 1 || choice > len(list) {
		res.Failure = &Failure{Code: FailureOutOfRange, Max: len(list)}
		return res
	}

	name := list[choice-1]
	e.clearSession(ctx, userID)

	rec, ok := e.catalog.FindByName(name)
	if !ok {
		res.Failure = &Failure{Code: FailureRecordMissing, Name: name}
		return res
	}
	out := resolver.RecipeOutcome(rec)
	res.Outcome = &out
	return res
}

func (e *Engine) showMore(ctx context.Context, userID string) *Result {
	res := &Result{State: StateShowMore}

	sess := e.loadSession(ctx, userID)
	if sess == nil || len(sess.Recommendations) == 0 {
		res.Failure = &Failure{Code: FailureNothingToShow}
		return res
	}

	res.Records = e.catalog.FindByNames(sess.Recommendations)
	e.clearSession(ctx, userID)

	if len(res.Records) == 0 {
		res.Failure = &Failure{Code: FailureRecordMissing, Name: strings.Join(sess.Recommendations, ", ")}
	}
	return res
}

func (e *Engine) followUpOrQuery(ctx context.Context, userID, text string) *Result {
	if text == "" {
		none := resolver.NoneOutcome()
		return &Result{State: StateFreshQuery, Outcome: &none}
	}

	sess := e.loadSession(ctx, userID)
	if sess != nil {
		for _, name := range sess.Offered() {
			if !strings.Contains(strings.ToLower(name), text) {
				continue
			}
			e.clearSession(ctx, userID)
			sess = nil
			if rec, ok := e.catalog.FindByName(name); ok {
				out := resolver.RecipeOutcome(rec)
				return &Result{State: StateSubstring, Query: text, Outcome: &out}
			}
			// 菜名已不在目錄中，改當作新查詢
			break
		}
	}

	return e.freshQuery(ctx, userID, text, sess)
}

func (e *Engine) freshQuery(ctx context.Context, userID, text string, prev *session.Session) *Result {
	ent := e.extract(ctx, text)
	dish := ent.Dish
	filter := catalog.Filter{Diet: ent.Diet, Course: ent.Course}

	if dish == "" {
		dish = text
		if prev != nil {
			if prev.LastDish != "" {
				dish = prev.LastDish
			}
			if filter.Diet == "" {
				filter.Diet = prev.Diet
			}
			if filter.Course == "" {
				filter.Course = prev.Course
			}
		}
	}

	var (
		wg      sync.WaitGroup
		outcome resolver.Outcome
		recs    []recommend.Recommendation
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		outcome = e.resolver.Resolve(dish, filter, e.optionLimit)
	}()
	go func() {
		defer wg.Done()
		recs = e.recommender.Recommend(dish, filter, e.topN)
	}()
	wg.Wait()

	next := session.Session{
		LastDish:        dish,
		Diet:            filter.Diet,
		Course:          filter.Course,
		Options:         outcome.Options,
		Recommendations: recommend.Names(recs),
	}
	if err := e.sessions.Put(ctx, userID, next); err != nil {
		metrics.RecordSessionError("put")
		common.LogError("寫入 session 失敗", zap.String("user_id", userID), zap.Error(err))
	}

	return &Result{
		State:           StateFreshQuery,
		Query:           dish,
		Filter:          filter,
		Outcome:         &outcome,
		Recommendations: recs,
	}
}

// extract 擷取失敗時視同沒有實體
func (e *Engine) extract(ctx context.Context, text string) Entities {
	if e.extractor == nil {
		return Entities{}
	}
	ent, err := e.extractor.Extract(ctx, text)
	if err != nil {
		common.LogWarn("實體擷取失敗，改用原始查詢", zap.Error(err))
		return Entities{}
	}
	return ent
}

// loadSession 讀取失敗時視同沒有 session
func (e *Engine) loadSession(ctx context.Context, userID string) *session.Session {
	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			metrics.RecordSessionError("get")
			common.LogError("讀取 session 失敗", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	return sess
}

func (e *Engine) clearSession(ctx context.Context, userID string) {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		metrics.RecordSessionError("clear")
		common.LogError("清除 session 失敗", zap.String("user_id", userID), zap.Error(err))
	}
}

// IsSelection 輸入是否為對上一輪清單的選擇（數字或展開推薦），這類輸入會清空 session
func IsSelection(raw string) bool {
	text := strings.ToLower(strings.TrimSpace(raw))
	return isDigits(text) || isShowMore(text)
}

func isShowMore(text string) bool {
	return showMorePhrases[strings.Join(strings.Fields(text), " ")]
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
