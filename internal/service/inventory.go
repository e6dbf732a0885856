package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/himanshu-anonymous/CookMate/internal/logger"
	"github.com/himanshu-anonymous/CookMate/internal/models"
	"github.com/himanshu-anonymous/CookMate/internal/pantry"
	"github.com/himanshu-anonymous/CookMate/internal/types"
)

const (
	DefaultExpiryWindowDays = 3
	lowStockThreshold       = 1.0
	restockQuantity         = 1.0
)

// InventoryService manages pantry rows and their ingestion from photos
type InventoryService struct {
	db       *gorm.DB
	chef     ChefClient
	archive  ImageArchive
	detector LabelDetector
	logger   *zap.Logger
	now      func() time.Time
}

// NewInventoryService creates a new InventoryService. archive and detector
// are optional.
func NewInventoryService(db *gorm.DB, chef ChefClient, archive ImageArchive, detector LabelDetector, log *zap.Logger) *InventoryService {
	return &InventoryService{
		db:       db,
		chef:     chef,
		archive:  archive,
		detector: detector,
		logger:   logger.OrNop(log).Named("inventory"),
		now:      time.Now,
	}
}

// ListInventory returns the user's rows in stored order
func (s *InventoryService) ListInventory(ctx context.Context, userID uint) ([]models.InventoryItem, error) {
	if _, err := findUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return loadInventory(s.db.WithContext(ctx), userID)
}

// BulkAdd adds each item to the pantry. A name that matches an existing row
// case-insensitively restocks that row instead of creating a new one.
func (s *InventoryService) BulkAdd(ctx context.Context, userID uint, items []types.InventoryItemCreate) (*types.BulkAddResult, error) {
	if _, err := findUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: item name is required", ErrInvalidInput)
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity for %q must not be negative", ErrInvalidInput, item.Name)
		}
		if err := checkItemLengths(item); err != nil {
			return nil, err
		}
	}

	result := &types.BulkAddResult{Status: "success", Items: []models.InventoryItem{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := loadInventory(lockRows(tx), userID)
		if err != nil {
			return err
		}
		byName := make(map[string]int, len(existing))
		for i, row := range existing {
			key := normalizeName(row.Name)
			if _, seen := byName[key]; !seen {
				byName[key] = i
			}
		}

		touched := make(map[int]bool)
		for _, in := range items {
			key := normalizeName(in.Name)
			if i, ok := byName[key]; ok {
				row := &existing[i]
				pantry.Restock(row, in.Quantity)
				mergeDetails(row, in)
				if err := tx.Save(row).Error; err != nil {
					return fmt.Errorf("failed to update %s: %w", row.Name, err)
				}
				if !touched[i] {
					touched[i] = true
					result.Updated++
				}
				continue
			}

			row := models.InventoryItem{
				UserID:       userID,
				Name:         strings.TrimSpace(in.Name),
				Quantity:     in.Quantity,
				Unit:         in.Unit,
				Category:     defaultString(in.Category, "pantry"),
				PricePerUnit: in.PricePerUnit,
				ExpiryDate:   in.ExpiryDate,
				IsExhausted:  in.Quantity == 0,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create %s: %w", row.Name, err)
			}
			existing = append(existing, row)
			byName[key] = len(existing) - 1
			touched[len(existing)-1] = true
			result.Created++
		}

		indexes := make([]int, 0, len(touched))
		for i := range touched {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		for _, i := range indexes {
			result.Items = append(result.Items, existing[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory updated",
		zap.Uint("user_id", userID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated))
	return result, nil
}

// ExpiringItems returns live rows whose expiry date falls within the next days
func (s *InventoryService) ExpiringItems(ctx context.Context, userID uint, days int) ([]models.InventoryItem, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}
	if _, err := findUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	return expiringWithin(s.db.WithContext(ctx), userID, s.now().AddDate(0, 0, days))
}

// ShoppingList suggests purchases for exhausted and low rows
func (s *InventoryService) ShoppingList(ctx context.Context, userID uint) ([]types.ShoppingItem, error) {
	if _, err := findUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	var rows []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND (is_exhausted = ? OR quantity <= ?)", userID, true, lowStockThreshold).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock: %w", err)
	}

	list := make([]types.ShoppingItem, 0, len(rows))
	for _, row := range rows {
		item := types.ShoppingItem{Name: row.Name, SuggestedQty: restockQuantity, Reason: "Running low"}
		if row.IsExhausted {
			item.Reason = "Out of stock"
		}
		list = append(list, item)
	}
	return list, nil
}

// ScanBill reads a grocery bill photo and adds the items it lists. A failed
// extraction adds nothing and is not an error.
func (s *InventoryService) ScanBill(ctx context.Context, userID uint, imageBase64 string) (*types.ScanBillResponse, error) {
	if _, err := findUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	data, contentType, err := decodeImage(imageBase64)
	if err != nil {
		return nil, err
	}

	resp := &types.ScanBillResponse{
		Items: []types.ScannedItem{},
		Added: types.BulkAddResult{Status: "success", Items: []models.InventoryItem{}},
	}
	resp.ImageURL = s.archiveImage(ctx, "bills", userID, data, contentType)

	scanned, err := s.chef.ParseBill(ctx, rawBase64(imageBase64))
	if err != nil {
		s.logger.Warn("bill extraction failed", zap.Uint("user_id", userID), zap.Error(err))
		return resp, nil
	}

	now := s.now()
	items := make([]types.InventoryItemCreate, 0, len(scanned))
	for _, sc := range scanned {
		if strings.TrimSpace(sc.Name) == "" || sc.Quantity < 0 {
			continue
		}
		// OCR output can run on; keep what fits rather than lose the bill
		item := types.InventoryItemCreate{
			Name:     clip(strings.TrimSpace(sc.Name), models.MaxItemNameLen),
			Quantity: sc.Quantity,
			Unit:     clip(strings.TrimSpace(sc.Unit), models.MaxUnitLen),
			Category: clip(strings.TrimSpace(sc.Category), models.MaxCategoryLen),
		}
		if sc.Price > 0 && sc.Quantity > 0 {
			item.PricePerUnit = sc.Price / sc.Quantity
		}
		if sc.ExpiryDays > 0 {
			expiry := now.AddDate(0, 0, sc.ExpiryDays)
			item.ExpiryDate = &expiry
		}
		resp.Items = append(resp.Items, sc)
		items = append(items, item)
	}
	if len(items) == 0 {
		return resp, nil
	}

	added, err := s.BulkAdd(ctx, userID, items)
	if err != nil {
		return nil, err
	}
	resp.Added = *added
	return resp, nil
}

// AnalyzeImage tags a pantry photo. Unavailable vision yields an empty list.
func (s *InventoryService) AnalyzeImage(ctx context.Context, imageBase64 string) (*types.DetectedItems, error) {
	data, _, err := decodeImage(imageBase64)
	if err != nil {
		return nil, err
	}

	out := &types.DetectedItems{DetectedItems: []string{}}
	if s.detector == nil {
		return out, nil
	}
	labels, err := s.detector.DetectLabels(ctx, data)
	if err != nil {
		s.logger.Warn("label detection failed", zap.Error(err))
		return out, nil
	}
	out.DetectedItems = append(out.DetectedItems, labels...)
	return out, nil
}

// archiveImage uploads the photo when an archive is configured and returns its key
func (s *InventoryService) archiveImage(ctx context.Context, prefix string, userID uint, data []byte, contentType string) string {
	if s.archive == nil {
		return ""
	}
	key := fmt.Sprintf("%s/%d/%s", prefix, userID, uuid.New().String())
	if err := s.archive.PutImage(ctx, key, data, contentType); err != nil {
		s.logger.Warn("image archive failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

func mergeDetails(row *models.InventoryItem, in types.InventoryItemCreate) {
	if in.Unit != "" {
		row.Unit = in.Unit
	}
	if in.Category != "" {
		row.Category = in.Category
	}
	if in.PricePerUnit > 0 {
		row.PricePerUnit = in.PricePerUnit
	}
	if in.ExpiryDate != nil {
		row.ExpiryDate = in.ExpiryDate
	}
}

func checkItemLengths(item types.InventoryItemCreate) error {
	if err := checkLen("name", strings.TrimSpace(item.Name), models.MaxItemNameLen); err != nil {
		return err
	}
	if err := checkLen("unit", item.Unit, models.MaxUnitLen); err != nil {
		return err
	}
	return checkLen("category", item.Category, models.MaxCategoryLen)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func loadInventory(db *gorm.DB, userID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := db.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return items, nil
}

func expiringWithin(db *gorm.DB, userID uint, until time.Time) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := db.
		Where("user_id = ? AND is_exhausted = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", userID, false, until).
		Order("expiry_date").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load expiring items: %w", err)
	}
	return items, nil
}

// lockRows takes row locks on postgres. SQLite serialises writers already.
func lockRows(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
