package service

import (
	"context"
	"errors"

	"studyhall/internal/models"
	"studyhall/internal/observability"

	"gorm.io/gorm"
)

// SuppressionThreshold is the distinct-reporter count at which an item is
// automatically hidden.
const SuppressionThreshold = 5

// ReportService is the report aggregator: the only writer of report rows
// and of the suppressed flag.
type ReportService struct {
	db *gorm.DB
}

// NewReportService returns a new ReportService.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ReportRow is a report with its admin-facing context: the reported item
// and the live total report count for that item (which keeps growing past
// the threshold, since later reports are still recorded).
type ReportRow struct {
	Report       models.Report   `json:"report"`
	Post         *models.Post    `json:"post,omitempty"`
	Comment      *models.Comment `json:"comment,omitempty"`
	TotalReports int64           `json:"total_reports"`
}

// Report records one report and, in the same transaction, counts the
// reports stored for the exact target and flips the item to suppressed
// once the count reaches the threshold.
//
// The count-and-flip living inside the insert's transaction is the key
// correctness property: two reports racing at count 4 cannot both read
// "not yet at threshold" and both skip the flip, because the transaction
// serializes them and the later commit observes the earlier insert. The
// flip is idempotent; reports past the threshold leave the flag true.
func (s *ReportService) Report(ctx context.Context, reporterID uint, target Target, reason models.ReportReason, detail string) (*models.Report, error) {
	if err := target.Validate(); err != nil {
		observability.ReportsTotal.WithLabelValues(models.CodeInvalidTarget).Inc()
		return nil, err
	}
	if !reason.Valid() {
		observability.ReportsTotal.WithLabelValues(models.CodeInvalidReason).Inc()
		return nil, models.NewInvalidReasonError(string(reason))
	}

	var report *models.Report
	var crossedThreshold bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := targetAuthor(ctx, tx, target)
		if err != nil {
			return err
		}
		if authorID == reporterID {
			return models.NewSelfInteractionError("report")
		}

		r := &models.Report{
			ReporterID: reporterID,
			PostID:     target.PostID,
			CommentID:  target.CommentID,
			Reason:     reason,
			Detail:     detail,
		}
		if err := tx.Create(r).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("You have already reported this item")
			}
			return err
		}

		count, err := s.countForTarget(tx, target)
		if err != nil {
			return err
		}
		if count >= SuppressionThreshold {
			if err := setSuppressed(tx, target, true); err != nil {
				return err
			}
			crossedThreshold = count == SuppressionThreshold
		}

		report = r
		return nil
	})
	if err != nil {
		observability.ReportsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	observability.ReportsTotal.WithLabelValues("created").Inc()
	if crossedThreshold {
		observability.SuppressionsTotal.WithLabelValues(target.Kind()).Inc()
	}
	return report, nil
}

// ListReports returns a page of reports, newest first, each with its item
// context and live total count. Admin-only; the handler enforces the role.
func (s *ReportService) ListReports(ctx context.Context, limit, offset int) ([]ReportRow, error) {
	var reports []models.Report
	if err := s.db.WithContext(ctx).
		Preload("Reporter").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error; err != nil {
		return nil, err
	}

	return s.buildRows(ctx, reports)
}

// GetReport returns one report with item context and live total count.
func (s *ReportService) GetReport(ctx context.Context, id uint) (*ReportRow, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).Preload("Reporter").First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("report", id)
		}
		return nil, err
	}

	rows, err := s.buildRows(ctx, []models.Report{report})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// Unsuppress clears the suppressed flag on the report's target. The reports
// themselves are kept, so the item re-suppresses on the next report once
// the count is already past the threshold only if an admin later dismisses
// and the count rebuilds.
func (s *ReportService) Unsuppress(ctx context.Context, reportID uint) error {
	report, err := s.findReport(ctx, reportID)
	if err != nil {
		return err
	}
	target := Target{PostID: report.PostID, CommentID: report.CommentID}
	return setSuppressed(s.db.WithContext(ctx), target, false)
}

// Dismiss deletes ALL reports for the report's target and clears the
// suppressed flag, atomically. This is a full reset, not a per-report
// dismissal.
func (s *ReportService) Dismiss(ctx context.Context, reportID uint) error {
	report, err := s.findReport(ctx, reportID)
	if err != nil {
		return err
	}
	target := Target{PostID: report.PostID, CommentID: report.CommentID}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("1 = 0")
		if target.PostID != nil {
			q = tx.Where("post_id = ?", *target.PostID)
		} else if target.CommentID != nil {
			q = tx.Where("comment_id = ?", *target.CommentID)
		}
		if err := q.Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return setSuppressed(tx, target, false)
	})
}

// CountReports returns the live report count for a target.
func (s *ReportService) CountReports(ctx context.Context, target Target) (int64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	return s.countForTarget(s.db.WithContext(ctx), target)
}

func (s *ReportService) findReport(ctx context.Context, reportID uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("report", reportID)
		}
		return nil, err
	}
	return &report, nil
}

func (s *ReportService) countForTarget(tx *gorm.DB, t Target) (int64, error) {
	var count int64
	q := tx.Model(&models.Report{})
	if t.PostID != nil {
		q = q.Where("post_id = ?", *t.PostID)
	} else {
		q = q.Where("comment_id = ?", *t.CommentID)
	}
	err := q.Count(&count).Error
	return count, err
}

// setSuppressed flips the moderation-hidden flag on the target item.
// Writing true over true (or false over false) is a no-op by construction.
func setSuppressed(tx *gorm.DB, t Target, suppressed bool) error {
	if t.PostID != nil {
		return tx.Model(&models.Post{}).Where("id = ?", *t.PostID).Update("suppressed", suppressed).Error
	}
	return tx.Model(&models.Comment{}).Where("id = ?", *t.CommentID).Update("suppressed", suppressed).Error
}

// buildRows attaches item context and live counts to a page of reports.
func (s *ReportService) buildRows(ctx context.Context, reports []models.Report) ([]ReportRow, error) {
	postIDs := make([]uint, 0, len(reports))
	commentIDs := make([]uint, 0, len(reports))
	for _, r := range reports {
		if r.PostID != nil {
			postIDs = append(postIDs, *r.PostID)
		}
		if r.CommentID != nil {
			commentIDs = append(commentIDs, *r.CommentID)
		}
	}

	postsByID := map[uint]*models.Post{}
	if len(postIDs) > 0 {
		var posts []*models.Post
		if err := s.db.WithContext(ctx).Preload("User").Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
			return nil, err
		}
		for _, p := range posts {
			postsByID[p.ID] = p
		}
	}

	commentsByID := map[uint]*models.Comment{}
	if len(commentIDs) > 0 {
		var comments []*models.Comment
		if err := s.db.WithContext(ctx).Preload("User").Where("id IN ?", commentIDs).Find(&comments).Error; err != nil {
			return nil, err
		}
		for _, c := range comments {
			commentsByID[c.ID] = c
		}
	}

	postCounts, err := s.groupCounts(ctx, "post_id", postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.groupCounts(ctx, "comment_id", commentIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0, len(reports))
	for _, r := range reports {
		row := ReportRow{Report: r}
		if r.PostID != nil {
			row.Post = postsByID[*r.PostID]
			row.TotalReports = postCounts[*r.PostID]
		}
		if r.CommentID != nil {
			row.Comment = commentsByID[*r.CommentID]
			row.TotalReports = commentCounts[*r.CommentID]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *ReportService) groupCounts(ctx context.Context, column string, ids []uint) (map[uint]int64, error) {
	counts := map[uint]int64{}
	if len(ids) == 0 {
		return counts, nil
	}

	type row struct {
		TargetID uint  `gorm:"column:target_id"`
		Total    int64 `gorm:"column:total"`
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Select(column+" as target_id, COUNT(*) as total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.TargetID] = r.Total
	}
	return counts, nil
}
