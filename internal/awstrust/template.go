// ABOUTME: CloudFormation template for the read-only Optifuse access role
// ABOUTME: Rendered with yaml.v3 so the external ID is embedded as a parameter default

package awstrust

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// ServiceAccountID is the AWS account the Optifuse service assumes roles from
	ServiceAccountID = "616860869053"
	// RoleName is the IAM role created by the template
	RoleName = "Optifuse-User-Access-Role"
	// TemplateFilename is the suggested file name when saving the template
	TemplateFilename = "optifuse-template.yml"
	// ConsoleURL opens the CloudFormation stack creation page
	ConsoleURL = "https://console.aws.amazon.com/cloudformation/home#/stacks/create/template"
)

// Actions granted to the role, X-Ray for the dependency graph and CloudWatch Logs for metrics
var readOnlyActions = []string{
	"xray:GetTraceSummaries",
	"xray:BatchGetTraces",
	"xray:ListResourcePolicies",
	"logs:DescribeLogGroups",
	"logs:StartQuery",
	"logs:StopQuery",
	"logs:GetQueryResults",
	"logs:FilterLogEvents",
}

// Template renders the CloudFormation template for externalID
func Template(externalID string) (string, error) {
	actions := make([]*yaml.Node, 0, len(readOnlyActions))
	for _, a := range readOnlyActions {
		actions = append(actions, str(a))
	}

	externalIDParam := mapping(
		"Type", str("String"),
		"Description", str("The unique External ID provided on your Optifuse settings page. This ensures only you can access this role."),
	)
	if externalID != "" {
		externalIDParam.Content = append(externalIDParam.Content, str("Default"), str(externalID))
	}

	doc := mapping(
		"AWSTemplateFormatVersion", str("2010-09-09"),
		"Description", str("This template creates a read-only IAM Role for Optifuse to securely access AWS X-Ray and CloudWatch Logs data for performance analysis."),
		"Parameters", mapping(
			"OptifuseAWSAccountId", mapping(
				"Type", str("String"),
				"Description", str("The AWS Account ID provided by the Optifuse application."),
				"Default", str(ServiceAccountID),
			),
			"OptifuseExternalId", externalIDParam,
		),
		"Resources", mapping(
			"OptifuseUserAccessRole", mapping(
				"Type", str("AWS::IAM::Role"),
				"Properties", mapping(
					"RoleName", str(RoleName),
					"AssumeRolePolicyDocument", mapping(
						"Version", str("2012-10-17"),
						"Statement", sequence(mapping(
							"Effect", str("Allow"),
							"Principal", mapping(
								"AWS", tagged("!Sub", "arn:aws:iam::${OptifuseAWSAccountId}:root"),
							),
							"Action", str("sts:AssumeRole"),
							"Condition", mapping(
								"StringEquals", mapping(
									"sts:ExternalId", tagged("!Ref", "OptifuseExternalId"),
								),
							),
						)),
					),
					"Policies", sequence(mapping(
						"PolicyName", str("OptifuseReadOnlyPerformanceDataPolicy"),
						"PolicyDocument", mapping(
							"Version", str("2012-10-17"),
							"Statement", sequence(mapping(
								"Effect", str("Allow"),
								"Action", sequence(actions...),
								"Resource", str("*"),
							)),
						),
					)),
				),
			),
		),
		"Outputs", mapping(
			"RoleArn", mapping(
				"Description", str("The ARN of the created IAM Role. Copy this value into your Optifuse settings page."),
				"Value", tagged("!GetAtt", "OptifuseUserAccessRole.Arn"),
			),
		),
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// str is a string scalar, quoted by the encoder when it would read back as another type
func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// tagged is a scalar carrying a CloudFormation intrinsic function tag
func tagged(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

// mapping builds a mapping node from alternating keys and values
func mapping(kv ...interface{}) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Content = append(n.Content, str(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return n
}

func sequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}
