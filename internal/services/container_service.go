package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"orderflow-backend/internal/apperror"
	"orderflow-backend/internal/cache"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
)

type ContainerService struct {
	Containers *repositories.ContainerRepository
	Products   *repositories.ProductRepository
}

func NewContainerService(containers *repositories.ContainerRepository, products *repositories.ProductRepository) *ContainerService {
	return &ContainerService{Containers: containers, Products: products}
}

// Create books an inbound shipment. Each line is matched to a product by
// item number; lines with no matching product are skipped and reported back
// rather than failing the whole intake. Matched lines update stock (on-hand
// or in-transit depending on status) and refresh product pricing, all in
// one transaction.
func (s *ContainerService) Create(ctx context.Context, req *models.CreateContainerRequest) (*models.ContainerIntakeResult, error) {
	if len(req.Items) == 0 {
		return nil, apperror.InvalidOrder("container must contain at least one line item")
	}

	status := req.ContainerStatus
	if status == "" {
		status = models.ContainerStatusOnTheWay
	}
	if status != models.ContainerStatusOnTheWay && status != models.ContainerStatusArrived {
		return nil, apperror.InvalidOrder(fmt.Sprintf("unknown container status %q", status))
	}

	var totalQty int
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperror.InvalidOrder(fmt.Sprintf("item %s has non-positive quantity", line.ItemNumber))
		}
		totalQty += line.Quantity
	}
	perUnitShipping := 0.0
	if totalQty > 0 {
		perUnitShipping = round2(req.ShippingCost / float64(totalQty))
	}

	tx, err := s.Containers.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var items []models.ContainerItem
	var failed []string

	for _, line := range req.Items {
		product, err := s.Products.GetByItemNumber(ctx, line.ItemNumber)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				failed = append(failed, line.ItemNumber)
				continue
			}
			return nil, fmt.Errorf("failed to look up item %s: %w", line.ItemNumber, err)
		}
		if product.IsDeleted {
			failed = append(failed, line.ItemNumber)
			continue
		}

		item := models.ContainerItem{
			ItemNumber:          line.ItemNumber,
			Quantity:            line.Quantity,
			PurchasePrice:       line.PurchasePrice,
			SalesPrice:          line.SalesPrice,
			PerCaseCost:         round2(line.PurchasePrice / float64(line.Quantity)),
			PerUnitShippingCost: perUnitShipping,
		}

		if status == models.ContainerStatusArrived {
			err = s.Products.ReceiveOnHand(ctx, tx, item)
		} else {
			err = s.Products.ReceiveIncoming(ctx, tx, item)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to receive item %s: %w", line.ItemNumber, err)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, apperror.InvalidOrder("no container line matched an existing product")
	}

	number, err := s.Containers.NextContainerNumber(ctx, tx)
	if err != nil {
		return nil, err
	}
	container := &models.Container{
		ContainerNumber: number,
		ContainerStatus: status,
		ShippingCost:    req.ShippingCost,
		Items:           items,
	}
	if err := s.Containers.CreateTx(ctx, tx, container); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateProductCaches(ctx)
	return &models.ContainerIntakeResult{Container: container, FailedEntries: failed}, nil
}

// Update edits a container. The onTheWay to arrived transition reconciles
// stock: every line's quantity moves from in-transit to on-hand, atomically
// with the status change.
func (s *ContainerService) Update(ctx context.Context, id int, req *models.UpdateContainerRequest) (*models.Container, error) {
	tx, err := s.Containers.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	container, err := s.Containers.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ContainerNotFound(id)
		}
		return nil, fmt.Errorf("failed to load container: %w", err)
	}
	if container.IsDeleted {
		return nil, apperror.ContainerNotFound(id)
	}

	if req.ContainerStatus != nil {
		newStatus := *req.ContainerStatus
		if newStatus != models.ContainerStatusOnTheWay && newStatus != models.ContainerStatusArrived {
			return nil, apperror.InvalidOrder(fmt.Sprintf("unknown container status %q", newStatus))
		}
		if container.ContainerStatus == models.ContainerStatusOnTheWay && newStatus == models.ContainerStatusArrived {
			for _, item := range container.Items {
				if err := s.Products.MoveIncomingToOnHand(ctx, tx, item.ItemNumber, item.Quantity); err != nil {
					return nil, fmt.Errorf("failed to move stock on-hand for item %s: %w", item.ItemNumber, err)
				}
			}
		}
		container.ContainerStatus = newStatus
	}
	if req.ShippingCost != nil {
		container.ShippingCost = *req.ShippingCost
	}

	if err := s.Containers.UpdateTx(ctx, tx, container); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateProductCaches(ctx)
	return s.Containers.Get(ctx, id)
}

func (s *ContainerService) Get(ctx context.Context, id int) (*models.Container, error) {
	c, err := s.Containers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ContainerNotFound(id)
		}
		return nil, err
	}
	if c.IsDeleted {
		return nil, apperror.ContainerNotFound(id)
	}
	return c, nil
}

func (s *ContainerService) List(ctx context.Context) ([]*models.Container, error) {
	return s.Containers.List(ctx)
}

func (s *ContainerService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.Containers.SoftDelete(ctx, id)
}

// ImportSpreadsheet reads container lines from an xlsx upload and books the
// intake. Expected columns: item number, quantity, purchase price, sales
// price. The header row is skipped; unreadable rows are reported as failed
// entries alongside unmatched item numbers.
func (s *ContainerService) ImportSpreadsheet(ctx context.Context, r io.Reader, status string, shippingCost float64) (*models.ContainerIntakeResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperror.InvalidOrder("spreadsheet has no data rows")
	}

	var badRows []string
	req := &models.CreateContainerRequest{
		ContainerStatus: status,
		ShippingCost:    shippingCost,
	}
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		line, err := parseContainerRow(row)
		if err != nil {
			badRows = append(badRows, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		req.Items = append(req.Items, line)
	}
	if len(req.Items) == 0 {
		return nil, apperror.InvalidOrder("spreadsheet has no usable rows")
	}

	result, err := s.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	result.FailedEntries = append(result.FailedEntries, badRows...)
	return result, nil
}

func parseContainerRow(row []string) (models.ContainerItemRequest, error) {
	var line models.ContainerItemRequest
	if len(row) < 4 {
		return line, fmt.Errorf("expected 4 columns, got %d", len(row))
	}

	line.ItemNumber = strings.TrimSpace(row[0])
	if line.ItemNumber == "" {
		return line, fmt.Errorf("missing item number")
	}

	qty, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil || qty <= 0 {
		return line, fmt.Errorf("invalid quantity %q", row[1])
	}
	line.Quantity = qty

	purchase, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil || purchase < 0 {
		return line, fmt.Errorf("invalid purchase price %q", row[2])
	}
	line.PurchasePrice = purchase

	sales, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil || sales < 0 {
		return line, fmt.Errorf("invalid sales price %q", row[3])
	}
	line.SalesPrice = sales

	return line, nil
}
