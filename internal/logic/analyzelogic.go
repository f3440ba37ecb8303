package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"finlens-api/internal/svc"
	"finlens-api/internal/types"
	"finlens-api/pkg/fanout"
	"finlens-api/pkg/provider"
	"finlens-api/pkg/quote"
	"finlens-api/pkg/sector"
)

// AnalyzeLogic assembles the requested data blocks in one concurrent batch.
type AnalyzeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAnalyzeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalyzeLogic {
	return &AnalyzeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Analyze fans the requested lookups out concurrently and renders one chart
// block per success. A failing block becomes an entry in Errors; the call
// itself only fails on invalid input.
func (l *AnalyzeLogic) Analyze(req *types.AnalyzeRequest) (*types.AnalyzeResponse, error) {
	subject := strings.TrimSpace(req.Subject)
	ticker := strings.TrimSpace(req.Ticker)
	if subject == "" && ticker == "" && !req.Sector {
		return nil, errors.New("analyze: request must name a ticker, a subject or the sector table")
	}

	period, err := provider.ParsePeriod(req.Period)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	shape := quote.ShapeClose
	if req.FullOHLC {
		shape = quote.ShapeOHLC
	}

	var tasks []fanout.Task
	if ticker != "" {
		tasks = append(tasks, fanout.Task{
			Name: "quotes",
			Run: func(ctx context.Context) (any, error) {
				if l.svcCtx.Quotes == nil {
					return nil, errors.New("quote providers not configured")
				}
				series, err := l.svcCtx.Quotes.Fetch(ctx, ticker, period, shape)
				if err != nil {
					return nil, err
				}
				return quoteBlock(series, period.String()), nil
			},
		})
	}
	if subject != "" {
		tasks = append(tasks, fanout.Task{
			Name: "sentiment",
			Run: func(ctx context.Context) (any, error) {
				if l.svcCtx.News == nil {
					return nil, errors.New("news source not configured")
				}
				days := l.svcCtx.News.DailyCounts(ctx, subject, time.Now().UTC())
				return sentimentBlock(subject, days), nil
			},
		})
		tasks = append(tasks, fanout.Task{
			Name: "trends",
			Run: func(ctx context.Context) (any, error) {
				if l.svcCtx.Trends == nil {
					return nil, errors.New("trends source not configured")
				}
				series, err := l.svcCtx.Trends.InterestOverTime(ctx, subject)
				if err != nil {
					return nil, err
				}
				return trendBlock(series), nil
			},
		})
	}
	if req.Sector {
		tasks = append(tasks, fanout.Task{
			Name: "sector",
			Run: func(ctx context.Context) (any, error) {
				if l.svcCtx.Quotes == nil {
					return nil, errors.New("quote providers not configured")
				}
				table, err := sector.TypicalPrices(ctx, l.svcCtx.Quotes, period)
				if err != nil {
					return nil, err
				}
				return sectorBlock(table.NormalizedGrowth(), period.String()), nil
			},
		})
	}

	resp := &types.AnalyzeResponse{}
	for _, out := range fanout.Gather(l.ctx, tasks) {
		if !out.OK() {
			l.Errorf("analyze: %s block failed: %v", out.Task, out.Err)
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", out.Task, out.Err))
			continue
		}
		resp.Blocks = append(resp.Blocks, out.Value.(types.ChartBlock))
	}
	return resp, nil
}
