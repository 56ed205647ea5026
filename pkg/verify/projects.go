package verify

import (
	"github.com/cockroachdb/errors"

	"github.com/cmmoran/rdcgen/pkg/targets/golang"
	"github.com/cmmoran/rdcgen/pkg/targets/java"
)

const (
	JavaPackage = "com.rdc"
	javaSrc     = "/src/main/java"

	// GoModule is the module path of Go projects; generated files live in
	// GoModule + "/" + GoPackage.
	GoModule  = "rdcverify"
	GoPackage = "model"
)

const buildGradle = `plugins {
    id 'java'
    id 'application'
}

application {
    mainClass = 'com.rdc.Main'
}

group 'com.rdc'
version '1.0-SNAPSHOT'

repositories {
    mavenCentral()
}

dependencies {
    implementation group: 'com.fasterxml.jackson.core', name: 'jackson-core', version: '2.14.1'
    implementation group: 'com.fasterxml.jackson.core', name: 'jackson-databind', version: '2.14.1'
}

run {
    standardInput = System.in
}
`

const settingsGradle = "rootProject.name = 'rdc-verify'\n"

// Utils.input() reads all of stdin as UTF-8.
const utilsJava = `import java.io.IOException;
import java.nio.charset.StandardCharsets;

public class Utils {
    public static String input() {
        try {
            var bytes = System.in.readAllBytes();
            System.in.close();
            return new String(bytes, StandardCharsets.UTF_8);
        } catch (IOException ex) {
            throw new RuntimeException(ex);
        }
    }
}
`

// JavaProject stages a gradle application in package com.rdc holding the
// generated classes and main, the source of class Main.
func JavaProject(classes []java.Class, main string) (*Project, error) {
	p := New("gradle -q run")
	all := append([]java.Class{{Name: "Utils", Code: utilsJava}, {Name: "Main", Code: main}}, classes...)
	if _, err := java.Write(p.stage, javaSrc, JavaPackage, all); err != nil {
		return nil, errors.Wrap(err, "verify: java sources")
	}
	if err := p.AddFile("build.gradle", buildGradle); err != nil {
		return nil, err
	}
	if err := p.AddFile("settings.gradle", settingsGradle); err != nil {
		return nil, err
	}
	return p, nil
}

// JavaRoundTrip returns a Main that reads a value of class from stdin with
// Jackson, writes it back out, reads that again and prints the result.
func JavaRoundTrip(class string) string {
	return `import com.fasterxml.jackson.core.type.TypeReference;
import com.fasterxml.jackson.databind.ObjectMapper;

public class Main {
    public static void main(String[] args) throws Exception {
        var mapper = new ObjectMapper();
        ` + class + ` first = mapper.readValue(Utils.input(), new TypeReference<` + class + `>() {});
        ` + class + ` second = mapper.readValue(mapper.writeValueAsString(first), new TypeReference<` + class + `>() {});
        System.out.print(mapper.writeValueAsString(second));
    }
}
`
}

// GoProject stages a module with the generated files in package model and
// main, the source of package main.
func GoProject(files []golang.File, main string) (*Project, error) {
	p := New("go run .")
	if _, err := golang.Write(p.stage, "/"+GoPackage, files); err != nil {
		return nil, errors.Wrap(err, "verify: go sources")
	}
	if err := p.AddFile("go.mod", "module "+GoModule+"\n\ngo 1.22\n"); err != nil {
		return nil, err
	}
	if err := p.AddFile("main.go", main); err != nil {
		return nil, err
	}
	return p, nil
}

// GoRoundTrip returns a main that decodes a model.<typ> from stdin with
// encoding/json, encodes it, decodes that again and prints the result.
func GoRoundTrip(typ string) string {
	return `package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"` + GoModule + `/` + GoPackage + `"
)

func roundTrip(in []byte) ([]byte, error) {
	var v ` + GoPackage + `.` + typ + `
	if err := json.Unmarshal(in, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func main() {
	in, err := io.ReadAll(os.Stdin)
	if err == nil {
		in, err = roundTrip(in)
	}
	if err == nil {
		in, err = roundTrip(in)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(in)
}
`
}
