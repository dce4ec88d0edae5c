package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEmail(t *testing.T) {
	input := TextEmail("gate@example.com", "host@example.com", "Visitor pass", "Pass key: ABCDE12345")

	require.NotNil(t, input.Destination)
	assert.Equal(t, []string{"host@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "gate@example.com", aws.ToString(input.Source))
	assert.Equal(t, "Visitor pass", aws.ToString(input.Message.Subject.Data))
	assert.Equal(t, "Pass key: ABCDE12345", aws.ToString(input.Message.Body.Text.Data))
}

func TestTextSMS(t *testing.T) {
	input := TextSMS("+919876543210", "Pass key: ABCDE12345", "")
	assert.Equal(t, "+919876543210", aws.ToString(input.PhoneNumber))
	assert.Len(t, input.MessageAttributes, 1)

	input = TextSMS("+919876543210", "Pass key: ABCDE12345", "GATE")
	assert.Equal(t, "GATE", aws.ToString(input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
}
