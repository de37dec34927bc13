package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/cecredit-backend/internal/app"
	"github.com/yungbote/cecredit-backend/internal/certificates"
)

var errHashMismatch = errors.New("signing hash mismatch")

func newRevokeCmd(rt *runtime) *cobra.Command {
	var reason, actor string
	cmd := &cobra.Command{
		Use:   "revoke <certificate-number>",
		Short: "Revoke a certificate and record the reason in its audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var actorID *uuid.UUID
			if strings.TrimSpace(actor) != "" {
				id, err := uuid.Parse(actor)
				if err != nil {
					return fmt.Errorf("--actor must be a user id: %w", err)
				}
				actorID = &id
			}
			svc, err := rt.certificates()
			if err != nil {
				return err
			}
			cert, err := svc.Revoke(cmd.Context(), args[0], reason, actorID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"certificate_number": cert.CertificateNumber,
				"revoked":            cert.Revoked,
				"revoked_at":         cert.RevokedAt,
				"reason":             cert.RevocationReason,
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the certificate is revoked (required)")
	cmd.Flags().StringVar(&actor, "actor", "", "user id of the operator")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newVerifyHashCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-hash <certificate-number>",
		Short: "Recompute the signing hash of a stored certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.certificates()
			if err != nil {
				return err
			}
			check, err := svc.VerifyHash(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), check); err != nil {
				return err
			}
			if !check.Match {
				return errHashMismatch
			}
			return nil
		},
	}
}

func newAuditCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <certificate-number>",
		Short: "Print the audit trail of a certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.certificates()
			if err != nil {
				return err
			}
			entries, err := svc.AuditTrail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func newRenderSampleCmd(rt *runtime) *cobra.Command {
	var outDir, name, course string
	var hours float64
	cmd := &cobra.Command{
		Use:   "render-sample",
		Short: "Render a sample certificate PDF and PNG preview with the configured template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl, err := certificates.LoadTemplate(rt.cfg.TemplatePath)
			if err != nil {
				return err
			}
			signer, err := app.NewSigner(rt.cfg)
			if err != nil {
				return err
			}
			data, err := sampleRenderData(cmd.Context(), signer, rt.cfg.PublicBaseURL, name, course, hours, time.Now())
			if err != nil {
				return err
			}
			pdf, err := certificates.RenderPDF(data, tpl)
			if err != nil {
				return err
			}
			png, err := certificates.RenderPreview(data, tpl)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			pdfPath := filepath.Join(outDir, data.CertificateNumber+".pdf")
			pngPath := filepath.Join(outDir, data.CertificateNumber+".png")
			if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
				return err
			}
			if err := os.WriteFile(pngPath, png, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pdfPath)
			fmt.Fprintln(cmd.OutOrStdout(), pngPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&name, "name", "Jordan Sample", "student name")
	cmd.Flags().StringVar(&course, "course", "Ethics 101", "course title")
	cmd.Flags().Float64Var(&hours, "hours", 6, "CE hours")
	return cmd
}

func sampleRenderData(ctx context.Context, signer *certificates.Signer, baseURL, name, course string, hours float64, now time.Time) (certificates.RenderData, error) {
	issuedAt := now.UTC().Truncate(time.Second)
	number, err := certificates.GenerateCertificateNumber(ctx, certificates.CourseCode(course), issuedAt, nil)
	if err != nil {
		return certificates.RenderData{}, err
	}
	code, err := certificates.RandomCode(certificates.DefaultCodeLength)
	if err != nil {
		return certificates.RenderData{}, err
	}
	url := certificates.VerificationURL(baseURL, number, code)
	hash, err := signer.Sign(certificates.IssuancePayload{
		CertificateNumber: number,
		VerificationCode:  code,
		StudentName:       name,
		CourseTitle:       course,
		CEHours:           certificates.RoundHours(hours),
		IssuedAt:          issuedAt,
	})
	if err != nil {
		return certificates.RenderData{}, err
	}
	qr, err := certificates.QRPNG(url, certificates.DefaultQRSize)
	if err != nil {
		return certificates.RenderData{}, err
	}
	return certificates.RenderData{
		StudentName:       name,
		CourseTitle:       course,
		CEHours:           certificates.RoundHours(hours),
		CertificateNumber: number,
		VerificationCode:  code,
		VerificationURL:   url,
		IssuedAt:          issuedAt,
		SigningHash:       hash,
		QRPNG:             qr,
	}, nil
}
