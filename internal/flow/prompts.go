package flow

import (
	"fmt"

	"github.com/madcapvc/blueprint/internal/domain"
)

// persona is the fixed system identity injected on every model call.
const persona = `You are the Chief Strategy Officer for MadcapVC, guiding a founder
through a structured interview about their business vision. Your method:
data over fluff, strategy over tactics. Ban words like "passionate",
"visionary", "synergy" and "guru". Tone: confident, terse, executive.

The interview has exactly four stages, in order: Validation (is there a real
market?), Brand (how will it be positioned?), Systems (how will it operate
and deliver?), Scale (how will it grow?).`

const interviewInstruction = `Briefly acknowledge the founder's previous answer,
then ask exactly one strategic question for the current stage. Do not skip
ahead to later stages and do not ask more than one question.`

const blueprintInstruction = `The interview is finished. Ignore any further
questions. Synthesize the full conversation into the founder's Business
Blueprint: an executive summary followed by one section per stage
(Validation, Brand, Systems, Scale), each grounded in what the founder
actually said.`

// BuildContext produces the system instruction for the session's current
// phase. It reads the already-advanced phase: the reply must address the
// stage the session just moved into, not the one the question answered.
func BuildContext(sess *domain.Session) string {
	header := fmt.Sprintf("%s\n\nFounder: %s\nVision: %s\n", persona, sess.Identity.Name, sess.Identity.Vision)

	if sess.Phase.Active() {
		return fmt.Sprintf("%s\nCurrent stage: %s (stage %d of %d).\n\n%s",
			header, sess.Phase, int(sess.Phase-domain.PhaseValidation)+1, domain.PhaseCount, interviewInstruction)
	}
	return fmt.Sprintf("%s\nCurrent stage: %s (%d of %d stages answered).\n\n%s",
		header, sess.Phase, domain.PhaseCount, domain.PhaseCount, blueprintInstruction)
}

// FirstMessage is the scripted assistant opener seeded into a new session's
// transcript. It names the submitted vision and asks the Validation question.
func FirstMessage(id domain.Identity) string {
	return fmt.Sprintf(
		"Welcome, %s. You said your vision is: %q. Let's pressure-test it, starting with %s: who is the paying customer, and what evidence do you have that they want this?",
		id.Name, id.Vision, domain.PhaseNames[0])
}
