package profile

import "github.com/Alexandre220990/profitum-engine/internal/models"

// Merge combines a partial profile update into an accumulated profile.
// Non-empty fields in update replace those in existing (last write wins);
// declared needs accumulate as a deduplicated set union. An unknown value in
// update never erases a previously known field.
func Merge(existing, update models.ClientProfile) models.ClientProfile {
	merged := existing

	if update.Sector.IsKnown() {
		merged.Sector = update.Sector
	}
	if update.EmployeeCount != nil {
		merged.EmployeeCount = update.EmployeeCount
	}
	if update.AnnualRevenue != nil {
		merged.AnnualRevenue = update.AnnualRevenue
	}
	if update.HasProfessionalVehicles.IsKnown() {
		merged.HasProfessionalVehicles = update.HasProfessionalVehicles
	}
	if update.HeavyVehicleCount != nil {
		merged.HeavyVehicleCount = update.HeavyVehicleCount
	}
	if update.ConstructionEquipmentCount != nil {
		merged.ConstructionEquipmentCount = update.ConstructionEquipmentCount
	}
	if update.LightVehicleCount != nil {
		merged.LightVehicleCount = update.LightVehicleCount
	}
	if update.AnnualFuelLiters != nil {
		merged.AnnualFuelLiters = update.AnnualFuelLiters
	}
	if update.OwnsPremises.IsKnown() {
		merged.OwnsPremises = update.OwnsPremises
	}
	if update.PropertyTaxAmount != nil {
		merged.PropertyTaxAmount = update.PropertyTaxAmount
	}
	if update.PremisesSurfaceArea != nil {
		merged.PremisesSurfaceArea = update.PremisesSurfaceArea
	}
	if update.DoesRnD.IsKnown() {
		merged.DoesRnD = update.DoesRnD
	}
	if update.PayrollTotal != nil {
		merged.PayrollTotal = update.PayrollTotal
	}
	if update.AverageGrossSalary != nil {
		merged.AverageGrossSalary = update.AverageGrossSalary
	}
	if update.AnnualEnergyConsumptionKwh != nil {
		merged.AnnualEnergyConsumptionKwh = update.AnnualEnergyConsumptionKwh
	}
	merged.DeclaredNeeds = unionNeeds(existing.DeclaredNeeds, update.DeclaredNeeds)

	return merged
}

// unionNeeds appends new needs while preserving first-seen order.
func unionNeeds(existing, update []string) []string {
	if len(update) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(update))
	for _, n := range existing {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range update {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
