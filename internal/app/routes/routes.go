package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/eren/clubsphere/internal/app/controllers"
	"github.com/eren/clubsphere/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	clubController *controllers.ClubController,
	roleController *controllers.RoleController,
	recruitmentController *controllers.RecruitmentController,
	tripController *controllers.TripController,
	announcementController *controllers.AnnouncementController,
	userController *controllers.UserController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Everything else requires a verified identity token
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	clubs := authenticated.Group("/clubs")
	{
		clubs.POST("", clubController.CreateClub)
		clubs.GET("", clubController.ListClubs)
		clubs.GET("/:id", clubController.GetClub)
		clubs.PUT("/:id", clubController.UpdateClub)
		clubs.DELETE("/:id", clubController.DeleteClub)
		clubs.PUT("/:id/form", clubController.UpdateForm)

		// Membership
		clubs.GET("/:id/members", clubController.ListMembers)
		clubs.GET("/:id/members/me/permissions", clubController.GetOwnPermissions)
		clubs.PUT("/:id/members/:userId/status", clubController.ChangeMemberStatus)
		clubs.PUT("/:id/members/:userId/role", clubController.AssignRole)
		clubs.PUT("/:id/members/:userId/permissions", clubController.UpdateOverrides)
		clubs.DELETE("/:id/members/:userId", clubController.RemoveMember)
		clubs.DELETE("/:id/members/me", clubController.LeaveClub)

		// Violations
		clubs.POST("/:id/violations", clubController.RecordViolation)
		clubs.GET("/:id/violations", clubController.ListViolations)

		// Roles
		clubs.POST("/:id/roles", roleController.CreateRole)
		clubs.GET("/:id/roles", roleController.ListRoles)
		clubs.PUT("/:id/roles/:name", roleController.UpdateRole)
		clubs.DELETE("/:id/roles/:name", roleController.DeleteRole)

		// Recruitment entry points
		clubs.POST("/:id/applications", recruitmentController.Apply)
		clubs.GET("/:id/applications", recruitmentController.ListClubApplications)
		clubs.POST("/:id/invitations", recruitmentController.Invite)
		clubs.GET("/:id/invitations", recruitmentController.ListClubInvitations)

		// Trips
		clubs.POST("/:id/trips", tripController.CreateTrip)
		clubs.GET("/:id/trips", tripController.ListTrips)

		// Announcement feed
		clubs.POST("/:id/announcements", announcementController.CreateAnnouncement)
		clubs.GET("/:id/announcements", announcementController.ListAnnouncements)
	}

	authenticated.GET("/memberships/me", clubController.GetOwnMembership)

	applications := authenticated.Group("/applications")
	{
		applications.GET("/me", recruitmentController.ListOwnApplications)
		applications.PUT("/:id/interview", recruitmentController.ScheduleInterview)
		applications.PUT("/:id/interview/complete", recruitmentController.CompleteInterview)
		applications.POST("/:id/approve", recruitmentController.ApproveApplication)
		applications.POST("/:id/reject", recruitmentController.RejectApplication)
		applications.DELETE("/:id", recruitmentController.WithdrawApplication)
	}

	invitations := authenticated.Group("/invitations")
	{
		invitations.GET("/me", recruitmentController.ListOwnInvitations)
		invitations.GET("/code/:code", recruitmentController.GetInvitationByCode)
		invitations.POST("/:id/accept", recruitmentController.AcceptInvitation)
		invitations.POST("/:id/decline", recruitmentController.DeclineInvitation)
		invitations.DELETE("/:id", recruitmentController.CancelInvitation)
	}

	trips := authenticated.Group("/trips")
	{
		trips.GET("/:id", tripController.GetTrip)
		trips.PUT("/:id", tripController.UpdateTrip)
		trips.PUT("/:id/status", tripController.UpdateTripStatus)
		trips.DELETE("/:id", tripController.DeleteTrip)
		trips.POST("/:id/participants", tripController.JoinTrip)
		trips.GET("/:id/participants", tripController.ListParticipants)
		trips.DELETE("/:id/participants/me", tripController.LeaveTrip)
		trips.PUT("/:id/attendance", tripController.SetAttendance)
	}

	announcements := authenticated.Group("/announcements")
	{
		announcements.GET("/:id", announcementController.GetAnnouncement)
		announcements.DELETE("/:id", announcementController.DeleteAnnouncement)
		announcements.POST("/:id/pin", announcementController.PinAnnouncement)
		announcements.DELETE("/:id/pin", announcementController.UnpinAnnouncement)
		announcements.POST("/:id/close", announcementController.CloseInteraction)
		announcements.POST("/:id/votes", announcementController.Vote)
		announcements.GET("/:id/votes", announcementController.ListPollVotes)
		announcements.POST("/:id/responses", announcementController.SubmitForm)
		announcements.GET("/:id/responses", announcementController.ListFormResponses)
		announcements.POST("/:id/comments", announcementController.AddComment)
		announcements.GET("/:id/comments", announcementController.ListComments)
	}

	comments := authenticated.Group("/comments")
	{
		comments.PUT("/:id", announcementController.EditComment)
		comments.DELETE("/:id", announcementController.DeleteComment)
	}

	// User administration is reserved for platform admins
	users := authenticated.Group("/users")
	users.Use(authMiddleware.AdminRequired())
	{
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id/admin", userController.SetAdmin)
		users.DELETE("/:id", userController.DeleteUser)
	}
}
