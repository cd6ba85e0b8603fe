package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/autorenta/api/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// CompanyInfo - реквизиты арендодателя, попадают в шапку договора
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// ContractGenerator рендерит договор аренды автомобиля в PDF
type ContractGenerator struct {
	company CompanyInfo
}

// NewContractGenerator создает новый генератор договоров
func NewContractGenerator(company CompanyInfo) *ContractGenerator {
	return &ContractGenerator{company: company}
}

// Generate рендерит договор для бронирования
// Ожидает заполненные связанные данные (Vehicle с Category, User)
func (g *ContractGenerator) Generate(res *domain.Reservation) ([]byte, error) {
	if res.Vehicle == nil || res.User == nil {
		return nil, domain.ErrInvalidReservationData
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 30)
	pdf.AddPage()

	// Заголовок
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "VEHICLE RENTAL AGREEMENT", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Вступление: стороны договора
	pdf.SetFont("Helvetica", "", 10)
	intro := fmt.Sprintf(
		"On %s, %s, with registered address at %s (hereinafter THE LESSOR), and %s, "+
			"holder of user ID %s%s, e-mail %s (hereinafter THE LESSEE), agree to enter into this "+
			"vehicle rental agreement under the following clauses:",
		time.Now().Format("January 2, 2006"),
		g.company.Name,
		g.company.Address,
		res.User.FullName(),
		res.User.ID,
		licenseClause(res.User),
		res.User.Email,
	)
	pdf.MultiCell(0, 5, intro, "", "J", false)
	pdf.Ln(6)

	// Первая: предмет договора
	g.clauseTitle(pdf, "FIRST: SUBJECT OF THE AGREEMENT")
	pdf.MultiCell(0, 5, "THE LESSOR rents to THE LESSEE the vehicle described below:", "", "J", false)
	pdf.Ln(2)

	v := res.Vehicle
	categoryName := "General"
	if v.Category != nil {
		categoryName = v.Category.Name
	}
	g.bulletLine(pdf, fmt.Sprintf("Vehicle: %s %s", v.Make, v.Model))
	g.bulletLine(pdf, fmt.Sprintf("Year: %d", v.Year))
	g.bulletLine(pdf, fmt.Sprintf("Color: %s", valueOrDefault(v.Color, "Not specified")))
	g.bulletLine(pdf, fmt.Sprintf("Plate: %s", v.Plate))
	g.bulletLine(pdf, fmt.Sprintf("Category: %s", categoryName))
	g.bulletLine(pdf, fmt.Sprintf("Transmission: %s", v.Transmission))
	g.bulletLine(pdf, fmt.Sprintf("Fuel: %s", v.FuelType))
	g.bulletLine(pdf, fmt.Sprintf("Capacity: %d passengers, %d doors", v.PassengerCount, v.DoorCount))
	pdf.Ln(4)

	// Вторая: срок аренды
	g.clauseTitle(pdf, "SECOND: RENTAL PERIOD")
	dayWord := "days"
	if res.RentalDays == 1 {
		dayWord = "day"
	}
	period := fmt.Sprintf(
		"The rental period is %d %s, starting on %s and ending on %s, the date on which "+
			"THE LESSEE undertakes to return the vehicle.",
		res.RentalDays, dayWord,
		res.StartDate.Format("Monday, January 2, 2006"),
		res.EndDate.Format("Monday, January 2, 2006"),
	)
	pdf.MultiCell(0, 5, period, "", "J", false)
	pdf.Ln(4)

	// Третья: выдача и возврат
	g.clauseTitle(pdf, "THIRD: PICKUP AND RETURN")
	g.bulletLine(pdf, fmt.Sprintf("Pickup location: %s", valueOrDefault(res.PickupLocation, "Main office")))
	g.bulletLine(pdf, fmt.Sprintf("Return location: %s", valueOrDefault(res.ReturnLocation, "Main office")))
	pdf.Ln(2)
	pdf.MultiCell(0, 5,
		"THE LESSEE undertakes to receive and return the vehicle at the agreed places and dates, "+
			"in the same condition in which it was received, except for the natural wear of reasonable use.",
		"", "J", false)
	pdf.Ln(4)

	// Четвертая: цена
	g.clauseTitle(pdf, "FOURTH: RENTAL PRICE")
	price := fmt.Sprintf(
		"The agreed rental price is $%.2f for the whole period ($%.2f per day), plus a refundable "+
			"security deposit of $%.2f. Total amount payable: $%.2f.",
		res.TotalPrice, v.PricePerDay, res.Deposit, res.TotalPrice+res.Deposit,
	)
	pdf.MultiCell(0, 5, price, "", "J", false)
	pdf.Ln(4)

	// Пятая: обязанности арендатора
	g.clauseTitle(pdf, "FIFTH: OBLIGATIONS OF THE LESSEE")
	pdf.MultiCell(0, 5,
		"THE LESSEE shall use the vehicle exclusively for lawful purposes, shall not sublet it, "+
			"shall keep it in good condition and shall immediately report any accident, breakdown or theft "+
			"to THE LESSOR. Traffic fines incurred during the rental period are borne by THE LESSEE.",
		"", "J", false)
	pdf.Ln(10)

	// Подписи
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(85, 6, "_________________________", "", 0, "C", false, 0, "")
	pdf.CellFormat(85, 6, "_________________________", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(85, 6, "THE LESSOR", "", 0, "C", false, 0, "")
	pdf.CellFormat(85, 6, "THE LESSEE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(85, 5, g.company.Name, "", 0, "C", false, 0, "")
	pdf.CellFormat(85, 5, res.User.FullName(), "", 1, "C", false, 0, "")

	// Номер бронирования в подвале
	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Reservation %s", res.ID), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render contract pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *ContractGenerator) clauseTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func (g *ContractGenerator) bulletLine(pdf *gofpdf.Fpdf, text string) {
	pdf.CellFormat(5, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, text, "", 1, "L", false, 0, "")
}

func licenseClause(u *domain.User) string {
	if u.LicenseNumber == "" {
		return ""
	}
	return fmt.Sprintf(", driver license No. %s", u.LicenseNumber)
}

func valueOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
