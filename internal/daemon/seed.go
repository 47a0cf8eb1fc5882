package daemon

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/auth"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/config"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/uniuri"
	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/web"
)

// Seeded base data. The admin module hosts the two management tabs whose
// assignment edges gate the assignment endpoints themselves.
const (
	seedRoleAdmin    = "Administrador"
	seedRoleStandard = "Estándar"

	seedAdminModuleName  = "Administración"
	seedAdminModuleRoute = "/administracion"

	seedModulesTabName  = "Gestión de módulos"
	seedModulesTabRoute = "/gestion-modulos"
	seedTabsTabName     = "Gestión de pestañas"
	seedTabsTabRoute    = "/gestion-pestanas"

	seedAdminUsername = "admin"
)

// seed creates the base roles, the admin module with its management tabs,
// the admin user and the admin role's full-permission edges on both tabs.
// It is idempotent: rows are looked up before creation, so restarts do not
// duplicate data. Returns the management tab gates.
func seed(_ *config.Config, db *gorm.DB) (web.Gates, error) {
	var gates web.Gates

	err := db.Transaction(func(tx *gorm.DB) error {
		adminRole := models.Role{Name: seedRoleAdmin, Abbreviation: "ADM"}
		if err := tx.Where(models.Role{Name: seedRoleAdmin}).
			FirstOrCreate(&adminRole).Error; err != nil {
			return errors.Wrap(err, "seed admin role")
		}

		standardRole := models.Role{Name: seedRoleStandard, Abbreviation: "STD"}
		if err := tx.Where(models.Role{Name: seedRoleStandard}).
			FirstOrCreate(&standardRole).Error; err != nil {
			return errors.Wrap(err, "seed standard role")
		}

		adminModule := models.Module{
			Name:  seedAdminModuleName,
			Icon:  "settings",
			Route: seedAdminModuleRoute,
		}
		if err := tx.Where(models.Module{Route: seedAdminModuleRoute}).
			FirstOrCreate(&adminModule).Error; err != nil {
			return errors.Wrap(err, "seed admin module")
		}

		modulesTab := models.Tab{
			ModuleID: adminModule.ID,
			Name:     seedModulesTabName,
			Route:    seedModulesTabRoute,
		}
		if err := tx.Where(models.Tab{ModuleID: adminModule.ID, Route: seedModulesTabRoute}).
			FirstOrCreate(&modulesTab).Error; err != nil {
			return errors.Wrap(err, "seed modules tab")
		}

		tabsTab := models.Tab{
			ModuleID: adminModule.ID,
			Name:     seedTabsTabName,
			Route:    seedTabsTabRoute,
		}
		if err := tx.Where(models.Tab{ModuleID: adminModule.ID, Route: seedTabsTabRoute}).
			FirstOrCreate(&tabsTab).Error; err != nil {
			return errors.Wrap(err, "seed tabs tab")
		}

		gates = web.Gates{ModulesTabID: modulesTab.ID, TabsTabID: tabsTab.ID}

		// give the admin role reach and full base tokens on both tabs
		fullTokens := models.StringList(auth.BaseTokens())

		moduleEdge := models.RoleModule{
			RoleID:      adminRole.ID,
			ModuleID:    adminModule.ID,
			Permissions: fullTokens,
		}
		if err := tx.Where(models.RoleModule{RoleID: adminRole.ID, ModuleID: adminModule.ID}).
			FirstOrCreate(&moduleEdge).Error; err != nil {
			return errors.Wrap(err, "seed admin module edge")
		}

		for _, tabID := range []uint{modulesTab.ID, tabsTab.ID} {
			tabEdge := models.RoleTab{
				RoleID:      adminRole.ID,
				TabID:       tabID,
				Permissions: fullTokens,
			}
			if err := tx.Where(models.RoleTab{RoleID: adminRole.ID, TabID: tabID}).
				FirstOrCreate(&tabEdge).Error; err != nil {
				return errors.Wrap(err, "seed admin tab edge")
			}
		}

		var userCount int64
		if err := tx.Model(&models.User{}).Count(&userCount).Error; err != nil {
			return errors.Wrap(err, "count users")
		}

		if userCount == 0 {
			password := uniuri.NewLen(16)

			if err := tx.Create(&models.User{
				Username: seedAdminUsername,
				Password: models.HashPassword(password),
				Active:   true,
				RoleID:   adminRole.ID,
			}).Error; err != nil {
				return errors.Wrap(err, "seed admin user")
			}

			// logged once so the operator can do the first login
			log.Warn().
				Str("username", seedAdminUsername).
				Str("password", password).
				Msg("created initial admin user, change the password after first login")
		}

		return nil
	})
	if err != nil {
		return web.Gates{}, err
	}

	return gates, nil
}
