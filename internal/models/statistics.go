package models

import "time"

// StatisticsOverview is the aggregate snapshot shown on the manager
// dashboard and fed into report exports.
type StatisticsOverview struct {
	TotalEquipment      int64            `json:"total_equipment"`
	ActiveCompanies     int64            `json:"active_companies"`
	ActiveContracts     int64            `json:"active_contracts"`
	TotalContractValue  float64          `json:"total_contract_value"`
	TotalPaid           float64          `json:"total_paid"`
	TotalOverdue        float64          `json:"total_overdue"`
	RequestsByStatus    map[string]int64 `json:"requests_by_status"`
	ContractsByStatus   map[string]int64 `json:"contracts_by_status"`
	PaymentsByStatus    map[string]int64 `json:"payments_by_status"`
	MaintenanceByStatus map[string]int64 `json:"maintenance_by_status"`
	GeneratedAt         time.Time        `json:"generated_at"`
}
