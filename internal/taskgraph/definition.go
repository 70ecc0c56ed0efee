package taskgraph

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	definitionTagNameConstant              = "mapstructure"
	definitionsDecodeErrorTemplateConstant = "failed to decode task definitions: %w"
	tasksFilePathRequiredMessageConstant   = "tasks file path must be provided"
	tasksFileReadErrorTemplateConstant     = "failed to read tasks file: %w"
	tasksFileParseErrorTemplateConstant    = "failed to parse tasks file %s: %w"
	tasksFileMissingTasksTemplateConstant  = "tasks file %s must hold a \"tasks\" list or a list of task definitions"
	commandLineScalarOrListMessageConstant = "command must be a string or a list of strings"
	commandLineEntryTypeMessageConstant    = "command entries must be strings"
)

// CommandLine is an executable followed by its arguments. A single scalar value
// declares an executable without arguments.
type CommandLine []string

// TaskDefinition is the declarative form of a Task as written in configuration.
type TaskDefinition struct {
	Name             string            `mapstructure:"name" yaml:"name"`
	Description      string            `mapstructure:"description" yaml:"description"`
	DependsOn        []string          `mapstructure:"depends_on" yaml:"depends_on"`
	Command          CommandLine       `mapstructure:"command" yaml:"command"`
	WorkingDirectory string            `mapstructure:"working_directory" yaml:"working_directory"`
	Environment      map[string]string `mapstructure:"environment" yaml:"environment"`
}

type tasksFileDocument struct {
	Tasks *[]TaskDefinition `yaml:"tasks"`
}

// UnmarshalYAML accepts either a scalar executable or a sequence of strings.
func (commandLine *CommandLine) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*commandLine = CommandLine{node.Value}
		return nil
	case yaml.SequenceNode:
		entries := make([]string, 0, len(node.Content))
		for _, entryNode := range node.Content {
			if entryNode.Kind != yaml.ScalarNode {
				return errors.New(commandLineEntryTypeMessageConstant)
			}
			entries = append(entries, entryNode.Value)
		}
		*commandLine = entries
		return nil
	default:
		return errors.New(commandLineScalarOrListMessageConstant)
	}
}

// DecodeDefinitions converts a raw configuration value, typically the "tasks" list read
// by Viper, into task definitions. Unknown keys are rejected.
func DecodeDefinitions(rawDefinitions any) ([]TaskDefinition, error) {
	if rawDefinitions == nil {
		return nil, nil
	}

	var definitions []TaskDefinition
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          definitionTagNameConstant,
		Result:           &definitions,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if decoderError != nil {
		return nil, fmt.Errorf(definitionsDecodeErrorTemplateConstant, decoderError)
	}

	if decodeError := decoder.Decode(rawDefinitions); decodeError != nil {
		return nil, fmt.Errorf(definitionsDecodeErrorTemplateConstant, decodeError)
	}

	return definitions, nil
}

// LoadDefinitionsFile reads task definitions from a standalone YAML file. The file may
// hold a mapping with a "tasks" list or a bare list of definitions. Unknown keys are
// rejected at both levels.
func LoadDefinitionsFile(filePath string) ([]TaskDefinition, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return nil, errors.New(tasksFilePathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(tasksFileReadErrorTemplateConstant, readError)
	}

	var rootNode yaml.Node
	if parseError := yaml.Unmarshal(contentBytes, &rootNode); parseError != nil {
		return nil, fmt.Errorf(tasksFileParseErrorTemplateConstant, trimmedPath, parseError)
	}

	documentKind := yaml.Kind(0)
	if rootNode.Kind == yaml.DocumentNode && len(rootNode.Content) > 0 {
		documentKind = rootNode.Content[0].Kind
	}

	switch documentKind {
	case yaml.MappingNode:
		var document tasksFileDocument
		if decodeError := decodeKnownFields(contentBytes, &document); decodeError != nil {
			return nil, fmt.Errorf(tasksFileParseErrorTemplateConstant, trimmedPath, decodeError)
		}
		if document.Tasks == nil {
			return nil, fmt.Errorf(tasksFileMissingTasksTemplateConstant, trimmedPath)
		}
		return *document.Tasks, nil
	case yaml.SequenceNode:
		var bareDefinitions []TaskDefinition
		if decodeError := decodeKnownFields(contentBytes, &bareDefinitions); decodeError != nil {
			return nil, fmt.Errorf(tasksFileParseErrorTemplateConstant, trimmedPath, decodeError)
		}
		return bareDefinitions, nil
	default:
		return nil, fmt.Errorf(tasksFileMissingTasksTemplateConstant, trimmedPath)
	}
}

// decodeKnownFields decodes YAML content rejecting keys that match no field.
func decodeKnownFields(contentBytes []byte, target any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(contentBytes))
	decoder.KnownFields(true)
	return decoder.Decode(target)
}

// MergeDefinitions overlays overrides on base. A definition with the same name replaces
// the base entry in place; new names are appended in override order.
func MergeDefinitions(base []TaskDefinition, overrides []TaskDefinition) []TaskDefinition {
	merged := append([]TaskDefinition(nil), base...)
	positionByName := make(map[string]int, len(merged))
	for definitionIndex := range merged {
		positionByName[strings.TrimSpace(merged[definitionIndex].Name)] = definitionIndex
	}

	for _, override := range overrides {
		overrideName := strings.TrimSpace(override.Name)
		if existingIndex, exists := positionByName[overrideName]; exists {
			merged[existingIndex] = override
			continue
		}
		positionByName[overrideName] = len(merged)
		merged = append(merged, override)
	}

	return merged
}

// ToTask converts the definition into a Task. Environment names are upper-cased.
func (definition TaskDefinition) ToTask() Task {
	task := Task{
		Name:             strings.TrimSpace(definition.Name),
		Description:      strings.TrimSpace(definition.Description),
		Prerequisites:    append([]string(nil), definition.DependsOn...),
		WorkingDirectory: strings.TrimSpace(definition.WorkingDirectory),
	}

	if len(definition.Command) > 0 {
		task.Command = CommandSpecification{
			Executable: definition.Command[0],
			Arguments:  append([]string(nil), definition.Command[1:]...),
		}
	}

	if len(definition.Environment) > 0 {
		task.Environment = make(map[string]string, len(definition.Environment))
		for environmentKey, environmentValue := range definition.Environment {
			task.Environment[strings.ToUpper(strings.TrimSpace(environmentKey))] = environmentValue
		}
	}

	return task
}

// BuildGraph converts definitions into tasks and validates them into a Graph.
func BuildGraph(definitions []TaskDefinition) (*Graph, error) {
	tasks := make([]Task, 0, len(definitions))
	for _, definition := range definitions {
		tasks = append(tasks, definition.ToTask())
	}
	return NewGraph(tasks)
}
