package dto

import (
	"time"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// Las fechas de salida siempre van en UTC (ISO-8601).

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// FromMedicine mapea la entidad a la respuesta.
func FromMedicine(m *entity.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Stock:         m.Stock,
		PurchasePrice: m.PurchasePrice,
		SalePrice:     m.SalePrice,
		PurchaseDate:  utcPtr(m.PurchaseDate),
		ExpiryDate:    utcPtr(m.ExpiryDate),
		Manufacturer:  m.Manufacturer,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// FromSale mapea una venta.
func FromSale(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			MedicineID: it.MedicineID,
			UniqueCode: it.UniqueCode,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			Amount:     it.Amount,
		})
	}
	return SaleResponse{
		ID:          s.ID,
		Items:       items,
		TotalAmount: s.TotalAmount,
		Date:        s.Date.UTC(),
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

// FromBill mapea una factura de cualquier tipo.
func FromBill(b *entity.Bill) BillResponse {
	services := make([]BillServiceResponse, 0, len(b.Services))
	for _, s := range b.Services {
		services = append(services, BillServiceResponse{
			No:         s.No,
			Service:    s.Service,
			Price:      s.Price,
			Quantity:   s.Quantity,
			CGST:       s.CGST,
			SGST:       s.SGST,
			Total:      s.Total,
			TestID:     s.TestID,
			TestCode:   s.TestCode,
			TestName:   s.TestName,
			MedicineID: s.MedicineID,
			UniqueCode: s.UniqueCode,
			Name:       s.Name,
		})
	}
	return BillResponse{
		ID:             b.ID,
		PatientID:      b.PatientID,
		Contact:        b.Contact,
		Name:           b.Name,
		IPDNumber:      b.IPDNumber,
		AdmissionDate:  utcPtr(b.AdmissionDate),
		DischargeDate:  utcPtr(b.DischargeDate),
		Services:       services,
		Total:          b.Total,
		AdvancePayment: b.AdvancePayment,
		NetPayable:     b.NetPayable,
		Date:           b.Date.UTC(),
		CreatedAt:      b.CreatedAt.UTC(),
		UpdatedAt:      b.UpdatedAt.UTC(),
	}
}

// FromPatient mapea un paciente.
func FromPatient(p *entity.Patient) PatientResponse {
	return PatientResponse{
		ID:            p.ID,
		Name:          p.Name,
		Contact:       p.Contact,
		Address:       p.Address,
		Age:           p.Age,
		Gender:        p.Gender,
		FormType:      p.FormType,
		IPDNumber:     p.IPDNumber,
		OPDNumber:     p.OPDNumber,
		Amount:        p.Amount,
		Date:          p.Date.UTC(),
		ConsultDoctor: p.ConsultDoctor,
		ClinicalNotes: ClinicalNotes(p.Clinical),
		CreatedAt:     p.CreatedAt.UTC(),
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
}

// FromLabTest mapea un examen.
func FromLabTest(t *entity.LabTest) LabTestResponse {
	return LabTestResponse{ID: t.ID, Code: t.Code, Name: t.Name, Price: t.Price}
}

// FromUser mapea un usuario sin el hash de password.
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Age:         u.Age,
		UserType:    u.UserType,
		CreatedAt:   u.CreatedAt.UTC(),
	}
}
