package live

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

// Publisher — куда уходят новые замеры (Hub)
type Publisher interface {
	Publish(r domain.CongestionReading)
}

// HotspotNotifier — оповещение о новой горячей точке
type HotspotNotifier interface {
	NotifyHotspot(r domain.CongestionReading)
}

// Ingestor принимает замеры от дорожной службы: проверяет, сохраняет, рассылает
type Ingestor struct {
	store    store.Store
	pub      Publisher
	notifier HotspotNotifier
	log      *zap.Logger
}

func NewIngestor(s store.Store, pub Publisher, notifier HotspotNotifier, log *zap.Logger) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{store: s, pub: pub, notifier: notifier, log: log}
}

func validateReading(r domain.CongestionReading) error {
	if strings.TrimSpace(r.AreaID) == "" {
		return apperr.InvalidInput("areaId is required")
	}
	if !r.Level.Valid() {
		return apperr.InvalidInput("congestionLevel must be low, medium or high")
	}
	for _, p := range []domain.Level{r.Prediction10Min, r.Prediction30Min, r.Prediction1Hr, r.Prediction2Hr, r.Prediction3Hr} {
		if p != "" && !p.Valid() {
			return apperr.InvalidInput(fmt.Sprintf("unknown prediction level %q", p))
		}
	}
	if r.StabilityIndex < 0 || r.StabilityIndex > 100 {
		return apperr.InvalidInput("stabilityIndex must be between 0 and 100")
	}
	if r.CurrentSpeed < 0 || r.VehicleDensity < 0 {
		return apperr.InvalidInput("currentSpeed and vehicleDensity must not be negative")
	}
	return nil
}

// Ingest сохраняет замер и рассылает его. Если район только что стал
// горячей точкой, уходит оповещение.
func (in *Ingestor) Ingest(ctx context.Context, r domain.CongestionReading) (domain.CongestionReading, error) {
	if err := validateReading(r); err != nil {
		return r, err
	}

	areas, err := in.store.ListAreas(ctx)
	if err != nil {
		return r, err
	}
	area := domain.FindArea(areas, r.AreaID)
	if area == nil {
		return r, apperr.NotFound("unknown area " + r.AreaID)
	}
	r.AreaName = area.Name

	latest, err := in.store.LatestCongestion(ctx)
	if err != nil {
		return r, err
	}
	wasHotspot := false
	for _, prev := range latest {
		if prev.AreaID == r.AreaID {
			wasHotspot = prev.IsHotspot()
			break
		}
	}

	// время замера ставит сервер
	r.ID = ""
	r.RecordedAt = time.Time{}
	saved, err := in.store.AddCongestion(ctx, r)
	if err != nil {
		return r, err
	}

	in.log.Info("congestion reading ingested",
		zap.String("area", saved.AreaName),
		zap.String("level", string(saved.Level)),
		zap.Bool("hotspot", saved.IsHotspot()))

	if in.pub != nil {
		in.pub.Publish(saved)
	}
	if saved.IsHotspot() && !wasHotspot && in.notifier != nil {
		in.notifier.NotifyHotspot(saved)
	}
	return saved, nil
}
