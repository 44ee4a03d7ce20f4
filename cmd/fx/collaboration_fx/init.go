package collaboration_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tabi/internal/config"
	"tabi/internal/infra"
	"tabi/internal/repositories"
	"tabi/internal/services"
)

// Module provides the permission gate, members and invitations.
var Module = fx.Provide(
	providePermissionService,
	provideMemberService,
	provideInvitationService,
)

func providePermissionService(memberRepo repositories.MemberRepository, log *zap.Logger) services.PermissionServiceInterface {
	return services.NewPermissionService(memberRepo, log.Named("permission"))
}

func provideMemberService(
	memberRepo repositories.MemberRepository,
	planRepo repositories.PlanRepository,
	perms services.PermissionServiceInterface,
	tx infra.Transactor,
	log *zap.Logger,
) services.MemberServiceInterface {
	return services.NewMemberService(memberRepo, planRepo, perms, tx, log.Named("member"))
}

func provideInvitationService(
	cfg config.Config,
	invitationRepo repositories.InvitationRepository,
	memberRepo repositories.MemberRepository,
	userRepo repositories.UserRepository,
	planRepo repositories.PlanRepository,
	perms services.PermissionServiceInterface,
	tx infra.Transactor,
	mailService services.IMailService,
	log *zap.Logger,
) services.InvitationServiceInterface {
	return services.NewInvitationService(invitationRepo, memberRepo, userRepo, planRepo, perms, tx, mailService, log.Named("invitation"),
		services.InvitationSettings{
			TTL:               cfg.InvitationTTL,
			DeleteAfterAccept: cfg.DeleteInvitationAfterAccept,
		})
}
