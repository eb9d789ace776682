package services

// Services defined in this package:
// - ClubService: clubs, memberships, moderation and violations
// - RoleService: the per-club role registry
// - RecruitmentService: applications, interviews and invitations
// - TripService: trip planning, signups and attendance
// - AnnouncementService: announcements, polls, forms and comments
