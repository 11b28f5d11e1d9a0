package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kfcybersecurity/msp-portal/internal/core/domain"
	"github.com/kfcybersecurity/msp-portal/internal/core/ports"
)

// Catalog is the default service catalog, in identifier order.
var Catalog = []domain.Service{
	{Name: "Asset Mapper 360", Vertical: domain.VerticalIdentify, Description: "Automated network discovery & inventory.", Price: "$5/device"},
	{Name: "VulnScan Pro", Vertical: domain.VerticalIdentify, Description: "Continuous vulnerability assessment.", Price: "$150/mo"},
	{Name: "Sentinel Endpoint", Vertical: domain.VerticalProtect, Description: "NGAV & Ransomware rollback.", Price: "$8/user"},
	{Name: "ZeroTrust Gateway", Vertical: domain.VerticalProtect, Description: "DNS filtering & ZTNA access.", Price: "$6/user"},
	{Name: "EagleEye SIEM", Vertical: domain.VerticalDetect, Description: "24/7 Log aggregation & correlation.", Price: "$500/mo"},
	{Name: "RapidResponse SOAR", Vertical: domain.VerticalRespond, Description: "Automated incident isolation scripts.", Price: "$200/mo"},
	{Name: "CloudVault BDR", Vertical: domain.VerticalRecover, Description: "Immutable cloud backups.", Price: "$0.10/GB"},
	{Name: "PhishSim Trainer", Vertical: domain.VerticalGovern, Description: "Employee awareness training.", Price: "$2/user"},
}

// demoTenant is a sample client with the catalog positions (1-based)
// deployed to it and one CLIENT login.
type demoTenant struct {
	Name        string
	Description string
	Deployed    []int
	UserEmail   string
	UserName    string
}

// DemoPassword is the password of every demo tenant login.
const DemoPassword = "password123"

var demoTenants = []demoTenant{
	{Name: "Acme Corp", Description: "Manufacturing", Deployed: []int{1, 3, 5, 7}, UserEmail: "acme@example.com", UserName: "Acme Admin"},
	{Name: "Globex Inc", Description: "Logistics", Deployed: []int{3, 4}, UserEmail: "globex@example.com", UserName: "Globex Admin"},
	{Name: "Soylent Corp", Description: "Food processing", Deployed: []int{1, 2, 3, 4, 5, 6, 7, 8}, UserEmail: "soylent@example.com", UserName: "Soylent Admin"},
}

// SeedOptions controls what Seeder.Run writes.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	// Demo adds the sample tenants, their default deployments and one
	// CLIENT login per tenant.
	Demo bool
}

// SeedReport counts the rows Seeder.Run created.
type SeedReport struct {
	Services    int
	Clients     int
	Deployments int
	Users       int
	Admin       bool
}

// Seeder loads the catalog and optional demo data. Running it twice is safe:
// existing rows are detected and skipped.
type Seeder struct {
	users       ports.UserRepository
	clients     ports.ClientRepository
	services    ports.ServiceRepository
	deployments ports.DeploymentRepository
	log         zerolog.Logger
	now         func() time.Time
}

func NewSeeder(
	users ports.UserRepository,
	clients ports.ClientRepository,
	services ports.ServiceRepository,
	deployments ports.DeploymentRepository,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{
		users:       users,
		clients:     clients,
		services:    services,
		deployments: deployments,
		log:         log,
		now:         time.Now,
	}
}

func (s *Seeder) Run(ctx context.Context, opts SeedOptions) (SeedReport, error) {
	var report SeedReport

	serviceIDs, created, err := s.seedCatalog(ctx)
	if err != nil {
		return report, err
	}
	report.Services = created

	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		ok, err := s.seedUser(ctx, domain.User{Email: opts.AdminEmail, Name: "MSP Admin", Role: domain.RoleAdmin}, opts.AdminPassword)
		if err != nil {
			return report, err
		}
		report.Admin = ok
	}

	if opts.Demo {
		demo, err := s.seedDemo(ctx, serviceIDs)
		if err != nil {
			return report, err
		}
		report.Clients = demo.Clients
		report.Deployments = demo.Deployments
		report.Users = demo.Users
	}

	s.log.Info().
		Int("services", report.Services).
		Int("clients", report.Clients).
		Int("deployments", report.Deployments).
		Int("users", report.Users).
		Bool("admin", report.Admin).
		Msg("seed complete")
	return report, nil
}

// seedCatalog creates missing catalog entries and returns the identifier of
// every catalog entry, indexed by catalog position.
func (s *Seeder) seedCatalog(ctx context.Context) ([]int64, int, error) {
	existing, err := s.services.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("seed catalog: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, svc := range existing {
		byName[svc.Name] = svc.ID
	}

	ids := make([]int64, len(Catalog))
	created := 0
	for i, entry := range Catalog {
		if id, ok := byName[entry.Name]; ok {
			ids[i] = id
			continue
		}
		now := s.now().UTC()
		entry.CreatedAt, entry.UpdatedAt = now, now
		svc, err := s.services.Create(ctx, &entry)
		if err != nil {
			return nil, 0, fmt.Errorf("seed catalog %q: %w", entry.Name, err)
		}
		ids[i] = svc.ID
		created++
	}
	return ids, created, nil
}

// seedUser creates u with password unless its email is already taken. It
// reports whether a user was created.
func (s *Seeder) seedUser(ctx context.Context, u domain.User, password string) (bool, error) {
	u.Email = normalizeEmail(u.Email)
	_, err := s.users.FindByEmail(ctx, u.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("seed user %q: %w", u.Email, err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	now := s.now().UTC()
	u.ID = uuid.NewString()
	u.PasswordHash = hash
	u.CreatedAt, u.UpdatedAt = now, now
	_, err = s.users.Create(ctx, &u)
	if err != nil && !errors.Is(err, domain.ErrUserExists) {
		return false, fmt.Errorf("seed user %q: %w", u.Email, err)
	}
	return err == nil, nil
}

func (s *Seeder) seedDemo(ctx context.Context, serviceIDs []int64) (SeedReport, error) {
	var report SeedReport
	summaries, err := s.clients.ListWithCounts(ctx)
	if err != nil {
		return report, fmt.Errorf("seed demo: %w", err)
	}
	byName := make(map[string]string, len(summaries))
	for _, c := range summaries {
		byName[c.Name] = c.ID
	}

	for _, tenant := range demoTenants {
		clientID, ok := byName[tenant.Name]
		if !ok {
			now := s.now().UTC()
			c, err := s.clients.Create(ctx, &domain.Client{
				ID:          uuid.NewString(),
				Name:        tenant.Name,
				Description: tenant.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				return report, fmt.Errorf("seed client %q: %w", tenant.Name, err)
			}
			clientID = c.ID
			report.Clients++
		}

		for _, pos := range tenant.Deployed {
			_, err := s.deployments.Create(ctx, clientID, serviceIDs[pos-1], s.now().UTC())
			switch {
			case err == nil:
				report.Deployments++
			case errors.Is(err, domain.ErrDeploymentExists):
			default:
				return report, fmt.Errorf("seed deployment %q/%d: %w", tenant.Name, pos, err)
			}
		}

		created, err := s.seedUser(ctx, domain.User{
			Email:    tenant.UserEmail,
			Name:     tenant.UserName,
			Role:     domain.RoleClient,
			ClientID: clientID,
		}, DemoPassword)
		if err != nil {
			return report, err
		}
		if created {
			report.Users++
		}
	}
	return report, nil
}
