package services

import (
	"context"
	"sync"
	"time"

	"github.com/leasegrow/leasegrow-api/internal/events"
	"github.com/leasegrow/leasegrow-api/internal/models"
	"github.com/leasegrow/leasegrow-api/internal/repository"
)

// Hand-written repository mocks. Each embeds its interface so only the
// methods a test exercises need a hook; calling anything else panics.

type mockLeaseRequestRepository struct {
	repository.LeaseRequestRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.LeaseRequest, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.LeaseRequest, error)
	mockCreate              func(ctx context.Context, request *models.LeaseRequest) error
	mockUpdateStatusIf      func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error)
	mockHasPendingFor       func(ctx context.Context, equipmentID, accountID uint) (bool, error)
	mockHasContract         func(ctx context.Context, requestID uint) (bool, error)
}

func (m *mockLeaseRequestRepository) FindByID(ctx context.Context, id uint) (*models.LeaseRequest, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockLeaseRequestRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseRequest, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}
func (m *mockLeaseRequestRepository) Create(ctx context.Context, request *models.LeaseRequest) error {
	return m.mockCreate(ctx, request)
}
func (m *mockLeaseRequestRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
	return m.mockUpdateStatusIf(ctx, id, fromStatus, toStatus, set)
}
func (m *mockLeaseRequestRepository) HasPendingFor(ctx context.Context, equipmentID, accountID uint) (bool, error) {
	if m.mockHasPendingFor != nil {
		return m.mockHasPendingFor(ctx, equipmentID, accountID)
	}
	return false, nil
}
func (m *mockLeaseRequestRepository) HasContract(ctx context.Context, requestID uint) (bool, error) {
	if m.mockHasContract != nil {
		return m.mockHasContract(ctx, requestID)
	}
	return false, nil
}

type mockEquipmentRepository struct {
	repository.EquipmentRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Equipment, error)
}

func (m *mockEquipmentRepository) FindByID(ctx context.Context, id uint) (*models.Equipment, error) {
	return m.mockFindByID(ctx, id)
}

type mockCompanyRepository struct {
	repository.CompanyRepository
	mockFindByID      func(ctx context.Context, id uint) (*models.Company, error)
	mockFindByAccount func(ctx context.Context, accountID uint) (*models.Company, error)
	mockLinkToAccount func(ctx context.Context, companyID, accountID uint) error
}

func (m *mockCompanyRepository) FindByID(ctx context.Context, id uint) (*models.Company, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockCompanyRepository) FindByAccount(ctx context.Context, accountID uint) (*models.Company, error) {
	return m.mockFindByAccount(ctx, accountID)
}
func (m *mockCompanyRepository) LinkToAccount(ctx context.Context, companyID, accountID uint) error {
	return m.mockLinkToAccount(ctx, companyID, accountID)
}

type mockContractRepository struct {
	repository.ContractRepository
	mockFindByID            func(ctx context.Context, id uint) (*models.LeaseContract, error)
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.LeaseContract, error)
	mockIssue               func(ctx context.Context, contract *models.LeaseContract) error
	mockMarkSigned          func(ctx context.Context, id uint, updates map[string]interface{}, entries []models.PaymentSchedule) (bool, error)
	mockUpdateStatusIf      func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error)
}

func (m *mockContractRepository) FindByID(ctx context.Context, id uint) (*models.LeaseContract, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockContractRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.LeaseContract, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}
func (m *mockContractRepository) Issue(ctx context.Context, contract *models.LeaseContract) error {
	return m.mockIssue(ctx, contract)
}
func (m *mockContractRepository) MarkSigned(ctx context.Context, id uint, updates map[string]interface{}, entries []models.PaymentSchedule) (bool, error) {
	return m.mockMarkSigned(ctx, id, updates, entries)
}
func (m *mockContractRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
	return m.mockUpdateStatusIf(ctx, id, fromStatus, toStatus, set)
}

type mockPaymentRepository struct {
	repository.PaymentRepository
	mockFindByID         func(ctx context.Context, id uint) (*models.PaymentSchedule, error)
	mockCreateBatch      func(ctx context.Context, entries []models.PaymentSchedule) error
	mockMarkPaid         func(ctx context.Context, id uint, paidAt time.Time) (bool, error)
	mockCancelPending    func(ctx context.Context, contractID uint) (int64, error)
	mockMarkOverdueBatch func(ctx context.Context, asOf time.Time) ([]models.PaymentSchedule, error)
	mockCountUnpaid      func(ctx context.Context, contractID uint) (int64, error)
	mockMaxPaymentNumber func(ctx context.Context, contractID uint) (int, error)
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uint) (*models.PaymentSchedule, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockPaymentRepository) CreateBatch(ctx context.Context, entries []models.PaymentSchedule) error {
	return m.mockCreateBatch(ctx, entries)
}
func (m *mockPaymentRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	return m.mockMarkPaid(ctx, id, paidAt)
}
func (m *mockPaymentRepository) CancelPending(ctx context.Context, contractID uint) (int64, error) {
	return m.mockCancelPending(ctx, contractID)
}
func (m *mockPaymentRepository) MarkOverdueBatch(ctx context.Context, asOf time.Time) ([]models.PaymentSchedule, error) {
	return m.mockMarkOverdueBatch(ctx, asOf)
}
func (m *mockPaymentRepository) CountUnpaid(ctx context.Context, contractID uint) (int64, error) {
	return m.mockCountUnpaid(ctx, contractID)
}
func (m *mockPaymentRepository) MaxPaymentNumber(ctx context.Context, contractID uint) (int, error) {
	return m.mockMaxPaymentNumber(ctx, contractID)
}

type mockMaintenanceRepository struct {
	repository.MaintenanceRepository
	mockFindByID       func(ctx context.Context, id uint) (*models.MaintenanceRequest, error)
	mockCreate         func(ctx context.Context, request *models.MaintenanceRequest) error
	mockUpdateStatusIf func(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error)
	mockCreateLogEntry func(ctx context.Context, entry *models.Maintenance) error
}

func (m *mockMaintenanceRepository) FindByID(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockMaintenanceRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.MaintenanceRequest, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockMaintenanceRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	return m.mockCreate(ctx, request)
}
func (m *mockMaintenanceRepository) UpdateStatusIf(ctx context.Context, id uint, fromStatus, toStatus string, set map[string]interface{}) (bool, error) {
	return m.mockUpdateStatusIf(ctx, id, fromStatus, toStatus, set)
}
func (m *mockMaintenanceRepository) CreateLogEntry(ctx context.Context, entry *models.Maintenance) error {
	if m.mockCreateLogEntry != nil {
		return m.mockCreateLogEntry(ctx, entry)
	}
	return nil
}

type mockNotificationRepository struct {
	repository.NotificationRepository
	mockCreate      func(ctx context.Context, notification *models.Notification) error
	mockCreateBatch func(ctx context.Context, notifications []models.Notification) error
	mockMarkRead    func(ctx context.Context, id, accountID uint) (bool, error)
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if m.mockCreate == nil {
		return nil
	}
	return m.mockCreate(ctx, notification)
}
func (m *mockNotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if m.mockCreateBatch == nil {
		return nil
	}
	return m.mockCreateBatch(ctx, notifications)
}
func (m *mockNotificationRepository) MarkRead(ctx context.Context, id, accountID uint) (bool, error) {
	return m.mockMarkRead(ctx, id, accountID)
}

type mockChatRepository struct {
	repository.ChatRepository
	mockCreateRequestMessage     func(ctx context.Context, message *models.ChatMessage) error
	mockFindRequestMessages      func(ctx context.Context, leaseRequestID uint, afterID uint) ([]models.ChatMessage, error)
	mockCreateMaintenanceMessage func(ctx context.Context, message *models.MaintenanceChatMessage) error
	mockFindMaintenanceMessages  func(ctx context.Context, maintenanceRequestID uint, afterID uint) ([]models.MaintenanceChatMessage, error)
}

func (m *mockChatRepository) CreateRequestMessage(ctx context.Context, message *models.ChatMessage) error {
	return m.mockCreateRequestMessage(ctx, message)
}
func (m *mockChatRepository) FindRequestMessages(ctx context.Context, leaseRequestID uint, afterID uint) ([]models.ChatMessage, error) {
	return m.mockFindRequestMessages(ctx, leaseRequestID, afterID)
}
func (m *mockChatRepository) CreateMaintenanceMessage(ctx context.Context, message *models.MaintenanceChatMessage) error {
	return m.mockCreateMaintenanceMessage(ctx, message)
}
func (m *mockChatRepository) FindMaintenanceMessages(ctx context.Context, maintenanceRequestID uint, afterID uint) ([]models.MaintenanceChatMessage, error) {
	return m.mockFindMaintenanceMessages(ctx, maintenanceRequestID, afterID)
}

type mockAccountRepository struct {
	repository.AccountRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.Account, error)
	mockFindManagers func(ctx context.Context) ([]models.Account, error)
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	return m.mockFindByID(ctx, id)
}
func (m *mockAccountRepository) FindManagers(ctx context.Context) ([]models.Account, error) {
	if m.mockFindManagers == nil {
		return nil, nil
	}
	return m.mockFindManagers(ctx)
}

// mockPublisher records published events for assertions
type mockPublisher struct {
	mu     sync.Mutex
	events []events.Event
	topics []string
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	m.events = append(m.events, event)
}

func (m *mockPublisher) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, len(m.events))
	for i, e := range m.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func newTestNotificationService() *NotificationService {
	return NewNotificationService(&mockNotificationRepository{}, &mockAccountRepository{})
}
