package scheduler

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mentorhub/mentor-portal-api/databases"
	"github.com/mentorhub/mentor-portal-api/models"
	templates "github.com/mentorhub/mentor-portal-api/templates/html"
)

// Scheduler handles periodic background jobs for the mentorship directory
type Scheduler struct {
	cron  *cron.Cron
	MDB   databases.MentorDatabase
	SDB   databases.MenteeDatabase
	LDB   databases.LeaveApplicationDatabase
	AccDB databases.AccountDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	mDB databases.MentorDatabase,
	sDB databases.MenteeDatabase,
	lDB databases.LeaveApplicationDatabase,
	accDB databases.AccountDatabase,
) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		MDB:   mDB,
		SDB:   sDB,
		LDB:   lDB,
		AccDB: accDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Audit cross-collection references nightly at 2 AM UTC. The audit only
	// reports; the dangling references it finds are expected after mentor
	// deletions and are rendered as "Unassigned" on the read path.
	_, err := s.cron.AddFunc("0 2 * * *", s.auditReferences)
	if err != nil {
		zap.S().Errorw("failed to register reference audit job", "error", err)
	}

	// Remind mentors about stale pending leave applications daily at 7 AM UTC
	_, err = s.cron.AddFunc("0 7 * * *", s.remindPendingLeave)
	if err != nil {
		zap.S().Errorw("failed to register pending leave reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Directory scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Directory scheduler stopped")
}

// auditReferences walks both sides of the mentor/mentee link and logs every
// inconsistency: mentees pointing at a mentor that no longer exists, and
// mentor lists carrying mentees that no longer exist or point elsewhere.
func (s *Scheduler) auditReferences() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	zap.S().Info("Running reference audit job")

	mentors, err := s.MDB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("audit: failed to list mentors", "error", err)
		return
	}
	mentees, err := s.SDB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("audit: failed to list mentees", "error", err)
		return
	}

	mentorByID := make(map[primitive.ObjectID]models.Mentor, len(mentors))
	for _, m := range mentors {
		mentorByID[m.ID] = m
	}
	menteeByID := make(map[primitive.ObjectID]models.Mentee, len(mentees))
	for _, st := range mentees {
		menteeByID[st.ID] = st
	}

	danglingMentorRefs := 0
	for _, st := range mentees {
		if st.MentorID.IsZero() {
			continue
		}
		if _, ok := mentorByID[st.MentorID]; !ok {
			danglingMentorRefs++
			zap.S().Warnw("audit: mentee references missing mentor",
				"menteeId", st.ID.Hex(),
				"mentorId", st.MentorID.Hex(),
			)
		}
	}

	orphanedListEntries := 0
	for _, m := range mentors {
		for _, id := range m.Mentees {
			st, ok := menteeByID[id]
			if !ok {
				orphanedListEntries++
				zap.S().Warnw("audit: mentor lists missing mentee",
					"mentorId", m.ID.Hex(),
					"menteeId", id.Hex(),
				)
				continue
			}
			if st.MentorID != m.ID {
				orphanedListEntries++
				zap.S().Warnw("audit: mentor lists mentee assigned elsewhere",
					"mentorId", m.ID.Hex(),
					"menteeId", id.Hex(),
					"assignedMentorId", st.MentorID.Hex(),
				)
			}
		}
	}

	zap.S().Infow("Reference audit complete",
		"mentorsChecked", len(mentors),
		"menteesChecked", len(mentees),
		"danglingMentorRefs", danglingMentorRefs,
		"orphanedListEntries", orphanedListEntries,
	)
}

// remindPendingLeave emails each mentor a digest of their pending leave
// applications older than two days.
func (s *Scheduler) remindPendingLeave() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	zap.S().Info("Running pending leave reminder job")

	cutoff := time.Now().UTC().Add(-48 * time.Hour).Format("2006-01-02")
	pending, err := s.LDB.Find(ctx, bson.M{
		"status":    models.LeavePending,
		"appliedOn": bson.M{"$lte": cutoff},
	})
	if err != nil {
		zap.S().Errorw("reminder: failed to list pending applications", "error", err)
		return
	}
	if len(pending) == 0 {
		zap.S().Info("Pending leave reminder complete, nothing pending")
		return
	}

	// group stale applications per mentor via the mentee's assignment
	byMentor := make(map[primitive.ObjectID][]models.LeaveApplication)
	for _, application := range pending {
		mentee, err := s.SDB.FindOne(ctx, bson.M{"_id": application.MenteeID})
		if err != nil || mentee.MentorID.IsZero() {
			continue
		}
		byMentor[mentee.MentorID] = append(byMentor[mentee.MentorID], application)
	}

	remindersSent := 0
	for mentorID, applications := range byMentor {
		mentor, err := s.MDB.FindOne(ctx, bson.M{"_id": mentorID})
		if err != nil || mentor.Email == "" {
			continue
		}
		if err := s.sendReminderEmail(mentor, applications); err != nil {
			zap.S().Errorw("reminder: failed to send email", "mentorId", mentorID.Hex(), "error", err)
			continue
		}
		remindersSent++
	}

	zap.S().Infow("Pending leave reminder complete",
		"stalePending", len(pending),
		"remindersSent", remindersSent,
	)
}

func (s *Scheduler) sendReminderEmail(mentor *models.Mentor, applications []models.LeaveApplication) error {
	subject := "Pending Leave Applications"
	body := "Hi " + mentor.Name + ",\n\nYou have " +
		strconv.Itoa(len(applications)) + " leave application(s) waiting for a decision:\n"
	for _, application := range applications {
		body += "\n- " + application.StartDate + " to " + application.EndDate +
			" (applied " + application.AppliedOn + "): " + application.Reason
	}
	body += "\n\nMentorHub"

	from := mail.NewEmail("MentorHub", os.Getenv("FROM_EMAIL"))
	to := mail.NewEmail(mentor.Name, mentor.Email)
	message := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
