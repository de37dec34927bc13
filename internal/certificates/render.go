package certificates

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

var ErrInvalidRenderData = errors.New("invalid certificate render data")

// RenderData is everything printed on one certificate.
type RenderData struct {
	StudentName       string
	LicenseNumber     string
	LicenseState      string
	CourseTitle       string
	AccreditationBody string
	CEHours           float64
	CertificateNumber string
	VerificationCode  string
	VerificationURL   string
	IssuedAt          time.Time
	ExpiresAt         *time.Time
	SigningHash       string
	QRPNG             []byte
	// SignaturePNG is optional.
	SignaturePNG []byte
}

// Validate rejects data that would print a partially blank certificate.
func (d RenderData) Validate() error {
	var missing []string
	req := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	req("student_name", d.StudentName)
	req("course_title", d.CourseTitle)
	req("certificate_number", d.CertificateNumber)
	req("verification_code", d.VerificationCode)
	if d.IssuedAt.IsZero() {
		missing = append(missing, "issued_at")
	}
	if len(d.QRPNG) == 0 {
		missing = append(missing, "qr")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRenderData, strings.Join(missing, ", "))
	}
	if d.CEHours < 0 || math.IsNaN(d.CEHours) || math.IsInf(d.CEHours, 0) {
		return fmt.Errorf("%w: ce hours %v", ErrInvalidRenderData, d.CEHours)
	}
	if d.ExpiresAt != nil && d.ExpiresAt.Before(d.IssuedAt) {
		return fmt.Errorf("%w: expires before issue date", ErrInvalidRenderData)
	}
	return nil
}

const dateLayout = "January 2, 2006"

// RenderPDF lays out a single-page certificate and returns the PDF bytes.
func RenderPDF(d RenderData, tpl Template) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	orientation := tpl.Orientation
	if orientation == "" {
		orientation = "L"
	}
	size := tpl.PageSize
	if size == "" {
		size = "Letter"
	}

	pdf := fpdf.New(orientation, "mm", size, "")
	pdf.SetCompression(tpl.Compress)
	pdf.SetCreationDate(d.IssuedAt.UTC())
	pdf.SetTitle(tpl.Title+" "+d.CertificateNumber, true)
	pdf.SetAuthor(tpl.IssuerName, true)
	pdf.SetCreator("cecredit", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	w, h := pdf.GetPageSize()
	contentW := w - 30

	pdf.SetDrawColor(30, 60, 110)
	pdf.SetLineWidth(1.5)
	pdf.Rect(8, 8, w-16, h-16, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(12, 12, w-24, h-24, "D")

	line := func(y float64, family, style string, pt float64, txt string) {
		pdf.SetFont(family, style, pt)
		pdf.SetXY(15, y)
		pdf.CellFormat(contentW, pt*0.5, tr(txt), "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(30, 60, 110)
	line(28, "Times", "B", 32, tpl.Title)
	pdf.SetTextColor(60, 60, 60)
	line(48, "Helvetica", "", 13, tpl.Subtitle)
	pdf.SetTextColor(0, 0, 0)
	line(62, "Times", "BI", 28, d.StudentName)
	if lic := licenseLine(d.LicenseNumber, d.LicenseState); lic != "" {
		line(76, "Helvetica", "", 10, lic)
	}
	line(86, "Helvetica", "", 13, "has successfully completed")
	line(98, "Times", "B", 20, d.CourseTitle)
	line(112, "Helvetica", "B", 14, "CE Credit: "+FormatHours(d.CEHours))

	dates := "Issued " + d.IssuedAt.UTC().Format(dateLayout)
	if d.ExpiresAt != nil {
		dates += "    Expires " + d.ExpiresAt.UTC().Format(dateLayout)
	}
	line(122, "Helvetica", "", 11, dates)

	statement := tpl.AccreditationStatement
	if statement == "" && d.AccreditationBody != "" {
		statement = "Accredited by " + d.AccreditationBody
	}
	if statement != "" {
		line(130, "Helvetica", "I", 9, statement)
	}

	// Signature block, bottom left.
	sigX, sigY := 30.0, h-52
	if len(d.SignaturePNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(d.SignaturePNG))
		pdf.ImageOptions("signature", sigX+5, sigY-16, 50, 15, false, opts, 0, "")
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(sigX, sigY, sigX+70, sigY)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(sigX, sigY+2)
	pdf.CellFormat(70, 5, tr(tpl.SignerName), "", 2, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(70, 5, tr(tpl.SignerTitle), "", 2, "C", false, 0, "")
	pdf.CellFormat(70, 5, tr(tpl.IssuerName), "", 0, "C", false, 0, "")

	// QR and identifiers, bottom right.
	qrSize := 34.0
	qrX, qrY := w-30-qrSize, h-30-qrSize
	qrOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", qrOpts, bytes.NewReader(d.QRPNG))
	pdf.ImageOptions("qr", qrX, qrY, qrSize, qrSize, false, qrOpts, 0, d.VerificationURL)

	pdf.SetFont("Courier", "", 9)
	idX := qrX - 85
	pdf.SetXY(idX, qrY+6)
	pdf.CellFormat(80, 5, "Certificate No. "+d.CertificateNumber, "", 2, "R", false, 0, "")
	pdf.CellFormat(80, 5, "Verification Code "+d.VerificationCode, "", 2, "R", false, 0, "")
	if d.VerificationURL != "" {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(80, 4, "Verify at the address encoded in the QR code", "", 2, "R", false, 0, "")
	}
	if d.SigningHash != "" {
		pdf.SetFont("Courier", "", 6)
		pdf.SetXY(15, h-18)
		pdf.CellFormat(contentW, 3, "Signature "+d.SigningHash, "", 0, "C", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func licenseLine(number, state string) string {
	number, state = strings.TrimSpace(number), strings.TrimSpace(state)
	switch {
	case number == "":
		return ""
	case state == "":
		return "License " + number
	default:
		return "License " + number + " (" + state + ")"
	}
}
